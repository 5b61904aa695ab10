// Package models defines core data structures for notebooks, pages, queries, and results.
package models

import "time"

// Page represents a single page of free-form text inside a notebook.
// Page names are unique within their notebook; Position records insertion order.
type Page struct {
	ID         string    `json:"id" db:"id"`
	NotebookID string    `json:"notebook_id" db:"notebook_id"`
	Name       string    `json:"name" db:"name"`
	Text       string    `json:"text" db:"text"`
	Position   int       `json:"position" db:"position"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

// Notebook is an ordered collection of pages.
type Notebook struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// PageInput is the input for creating or updating a page.
type PageInput struct {
	Name string `json:"name"`
	Text string `json:"text"`
}
