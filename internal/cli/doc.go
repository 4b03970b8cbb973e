// Package cli defines the quill cobra commands. The root command starts the
// interactive interface; login, logout and list script the same controller
// operations, and mock-server runs an in-memory API for development.
package cli
