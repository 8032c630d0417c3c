// Package models defines the registration record shared by every store and
// its relational row shape.
//
// Registration has one canonical JSON naming (hearAbout, registrationDate).
// Decoding also accepts the legacy snake_case fields written by older clients
// and by the relational backend, so every store reads through the same type.
package models
