// Package resolvetest provides an in-memory fake of the resolve object model
// for tests. The host application is proprietary and cannot run headless, so
// package tests exercise command logic against this fake instead.
package resolvetest
