// Package api defines the request and response messages of the dues.v1 RPC
// services. Messages travel as JSON; amounts are decimal strings.
package api
