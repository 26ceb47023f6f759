// Package internal holds helpers shared by accountcore packages that are not
// part of the public API.
package internal
