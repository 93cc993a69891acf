// Package database provides connection pool management for the warehouse.
package database
