// Package testing provides fixtures and test utilities for gdpr.
package testing

import (
	"sync"
	"testing"
	"time"

	"github.com/zoobzio/gdpr"
)

// TestSecret returns a fixed registry secret for deterministic anonymizers.
func TestSecret(tb testing.TB) []byte {
	tb.Helper()
	return []byte("gdpr-test-secret-0123456789abcdef")
}

// TestRegistry returns a registry with the builtins keyed by TestSecret.
func TestRegistry(tb testing.TB) *gdpr.Registry {
	tb.Helper()
	return gdpr.NewRegistry(gdpr.WithSecret(TestSecret(tb)))
}

// SimpleUser is a test type with no gdpr markers.
type SimpleUser struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Clone implements Cloner[SimpleUser].
func (u SimpleUser) Clone() SimpleUser { return u }

// Address is a nested tagged object.
type Address struct {
	Street string `gdpr.export:"street" gdpr.anonymize:"redact"`
	City   string `gdpr.export:"city"`
}

// Order is a tagged collection element.
type Order struct {
	Number string `gdpr.export:"number"`
	IP     string `gdpr.export:"ip" gdpr.anonymize:"ip"`
}

// Customer exercises aliases, value maps, nested objects, and collections.
type Customer struct {
	ID      string    `gdpr.export:"id"`
	Email   string    `gdpr.export:"email" gdpr.anonymize:"email"`
	Name    string    `gdpr.export:"name" gdpr.anonymize:"name"`
	Status  int       `gdpr.export:"status" gdpr.map:"1=active,2=inactive"`
	Phone   string    `gdpr.anonymize:"phone"`
	Joined  time.Time `gdpr.anonymize:"datetime"`
	Address *Address  `gdpr.export:"address" gdpr.anonymize:"object"`
	Orders  []Order   `gdpr.export:"orders" gdpr.anonymize:"collection"`
	Notes   string
}

// Clone implements Cloner[Customer].
func (c Customer) Clone() Customer {
	out := c
	if c.Address != nil {
		addr := *c.Address
		out.Address = &addr
	}
	if c.Orders != nil {
		out.Orders = make([]Order, len(c.Orders))
		copy(out.Orders, c.Orders)
	}
	return out
}

// NewCustomer returns a populated Customer.
func NewCustomer() *Customer {
	return &Customer{
		ID:     "c-1",
		Email:  "alice@example.com",
		Name:   "Alice Liddell",
		Status: 1,
		Phone:  "(555) 123-4567",
		Joined: time.Date(2021, time.June, 15, 10, 30, 0, 0, time.UTC),
		Address: &Address{
			Street: "1 Rabbit Hole",
			City:   "Oxford",
		},
		Orders: []Order{
			{Number: "A-100", IP: "192.168.1.100"},
			{Number: "A-101", IP: "10.0.0.7"},
		},
		Notes: "not exported",
	}
}

// Call records one anonymizer invocation.
type Call struct {
	Value   any
	Options gdpr.Options
}

// RecordingAnonymizer records every call and returns Replacement.
type RecordingAnonymizer struct {
	Replacement any

	mu    sync.Mutex
	calls []Call
}

// Anonymize implements gdpr.Anonymizer.
func (r *RecordingAnonymizer) Anonymize(value any, opts gdpr.Options) (any, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, Call{Value: value, Options: opts})
	return r.Replacement, nil
}

// Calls returns a copy of the recorded calls.
func (r *RecordingAnonymizer) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Call(nil), r.calls...)
}
