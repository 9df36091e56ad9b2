// Package models defines the client-side data shapes exchanged with the
// recharge backend: the authenticated principal, recharge plans,
// transactions and support tickets.
//
// Decoders are deliberately tolerant: identifiers may arrive as numbers or
// strings, and operators either as a bare name or as an object carrying one.
package models
