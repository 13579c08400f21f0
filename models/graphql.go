// ABOUTME: This file defines the wire types of the Shopify Admin GraphQL endpoint
// ABOUTME: Query requests, result envelopes, and the GraphQL error descriptor

package models

import (
	"encoding/json"
)

// QueryRequest is the request body posted to the Admin GraphQL endpoint.
// The query string is an opaque payload; nothing here interprets it.
type QueryRequest struct {
	Query string `json:"query"`
}

// QueryResult is the response envelope of the Admin GraphQL endpoint.
// Data and Errors may coexist; a non-empty Errors list always wins.
type QueryResult struct {
	Data       json.RawMessage `json:"data,omitempty"`
	Errors     []GraphQLError  `json:"errors,omitempty"`
	Extensions json.RawMessage `json:"extensions,omitempty"`
}

// GraphQLError is a single error descriptor as returned by the endpoint.
type GraphQLError struct {
	Message    string                 `json:"message"`
	Locations  []GraphQLErrorLocation `json:"locations,omitempty"`
	Path       []interface{}          `json:"path,omitempty"`
	Extensions json.RawMessage        `json:"extensions,omitempty"`
}

// GraphQLErrorLocation points at the offending position in the query document.
type GraphQLErrorLocation struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}
