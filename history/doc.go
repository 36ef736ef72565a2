// Package history keeps the most recently opened mod folders in a small
// sqlite database so a front end can offer them again.
package history
