// Package repository provides the data access layer for ShareIt.
// This file contains the aggregate types the server wires a concrete
// backend (sqlite or postgres) into.
package repository

import "context"

// Repositories holds all repository instances.
type Repositories struct {
	User    UserRepository
	Item    ItemRepository
	Booking BookingRepository
	Request RequestRepository
	Comment CommentRepository
}

// DatabaseHealth is an interface for database health checks.
// Both backends' DB types satisfy it; the health endpoint and the
// server's shutdown path depend on it rather than a concrete driver.
type DatabaseHealth interface {
	Ping(ctx context.Context) error
	Close() error
}
