package gdpr

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type forgetProfile struct {
	Email    string      `gdpr.anonymize:"email"`
	Nick     *string     `gdpr.anonymize:"redact,value=[gone]"`
	Born     time.Time   `gdpr.anonymize:"datetime"`
	Score    int         `gdpr.anonymize:"null"`
	token    string      `gdpr.anonymize:"fixed,value=anonymous"`
	Keep     string
	Address  forgetAddr  `gdpr.anonymize:"object"`
	Previous *forgetAddr `gdpr.anonymize:"object"`
}

type forgetAddr struct {
	Street string `gdpr.anonymize:"redact"`
	City   string
}

type forgetGroup struct {
	Members []*forgetMember         `gdpr.anonymize:"collection"`
	ByID    map[string]forgetMember `gdpr.anonymize:"collection"`
	Nested  [][]forgetMember        `gdpr.anonymize:"collection"`
	Any     []any                   `gdpr.anonymize:"collection"`
}

type forgetMember struct {
	Name   string        `gdpr.anonymize:"name"`
	Friend *forgetMember `gdpr.anonymize:"object"`
}

type forgetSetter struct {
	email string `gdpr.anonymize:"email"`
	log   []string
}

func (f *forgetSetter) SetEmail(v string) {
	f.log = append(f.log, v)
	f.email = v
}

type forgetSelf struct {
	Secret string
}

func (f *forgetSelf) Anonymize(r *Registry) error {
	out, err := r.Anonymize(AnonymizeRedact, f.Secret, nil)
	if err != nil {
		return err
	}
	f.Secret = out.(string)
	return nil
}

func newTestForgetter() *Forgetter {
	return NewForgetter(WithMetadata(NewReader()), WithRegistry(NewRegistry(WithSecret([]byte("s")))))
}

func TestForgetter_Anonymize(t *testing.T) {
	nick := "ally"
	p := &forgetProfile{
		Email:    "alice@example.com",
		Nick:     &nick,
		Born:     time.Date(1990, time.May, 4, 12, 0, 0, 0, time.UTC),
		Score:    99,
		token:    "t0k3n",
		Keep:     "kept",
		Address:  forgetAddr{Street: "1 Main St", City: "Oslo"},
		Previous: &forgetAddr{Street: "2 Side St", City: "Bergen"},
	}

	require.NoError(t, newTestForgetter().Anonymize(context.Background(), p))

	assert.Equal(t, "a***@example.com", p.Email)
	require.NotNil(t, p.Nick)
	assert.Equal(t, "[gone]", *p.Nick)
	assert.Equal(t, "ally", nick, "pointer fields are replaced, not written through")
	assert.Equal(t, time.Date(1990, time.January, 1, 0, 0, 0, 0, time.UTC), p.Born)
	assert.Equal(t, 0, p.Score)
	assert.Equal(t, "anonymous", p.token)
	assert.Equal(t, "kept", p.Keep)
	assert.Equal(t, forgetAddr{Street: "***", City: "Oslo"}, p.Address)
	assert.Equal(t, &forgetAddr{Street: "***", City: "Bergen"}, p.Previous)
}

func TestForgetter_NilNested(t *testing.T) {
	p := &forgetProfile{Email: "a@b.c"}
	require.NoError(t, newTestForgetter().Anonymize(context.Background(), p))
	assert.Nil(t, p.Previous)
	assert.Nil(t, p.Nick)
}

func TestForgetter_Collection(t *testing.T) {
	g := &forgetGroup{
		Members: []*forgetMember{{Name: "Ada Lovelace"}, nil},
		ByID:    map[string]forgetMember{"x": {Name: "Grace Hopper"}},
		Nested:  [][]forgetMember{{{Name: "Alan Turing"}}},
		Any:     []any{&forgetMember{Name: "Edsger"}, "left alone", 3},
	}

	require.NoError(t, newTestForgetter().Anonymize(context.Background(), g))

	assert.Equal(t, "A** L*******", g.Members[0].Name)
	assert.Nil(t, g.Members[1])
	assert.Equal(t, "G**** H*****", g.ByID["x"].Name)
	assert.Equal(t, "A*** T*****", g.Nested[0][0].Name)
	assert.Equal(t, "E*****", g.Any[0].(*forgetMember).Name)
	assert.Equal(t, "left alone", g.Any[1])
}

func TestForgetter_StructsHeldInInterfaces(t *testing.T) {
	type holder struct {
		List  []any          `gdpr.anonymize:"collection"`
		Index map[string]any `gdpr.anonymize:"collection"`
		One   any            `gdpr.anonymize:"object"`
	}
	h := &holder{
		List:  []any{forgetMember{Name: "Ada"}, "left alone"},
		Index: map[string]any{"g": forgetMember{Name: "Grace"}, "n": 7},
		One:   forgetAddr{Street: "1 Main St", City: "Oslo"},
	}

	require.NoError(t, newTestForgetter().Anonymize(context.Background(), h))

	assert.Equal(t, forgetMember{Name: "A**"}, h.List[0])
	assert.Equal(t, "left alone", h.List[1])
	assert.Equal(t, forgetMember{Name: "G****"}, h.Index["g"])
	assert.Equal(t, 7, h.Index["n"])
	assert.Equal(t, forgetAddr{Street: "***", City: "Oslo"}, h.One)
}

type forgetBase struct {
	Email string `gdpr.anonymize:"email"`
}

type forgetEmbedded struct {
	*forgetBase
	Name string `gdpr.anonymize:"name"`
}

func TestForgetter_NilEmbeddedPointer(t *testing.T) {
	e := &forgetEmbedded{Name: "Ada"}
	require.NoError(t, newTestForgetter().Anonymize(context.Background(), e))
	assert.Nil(t, e.forgetBase)
	assert.Equal(t, "A**", e.Name)

	e = &forgetEmbedded{forgetBase: &forgetBase{Email: "ada@example.com"}, Name: "Ada"}
	require.NoError(t, newTestForgetter().Anonymize(context.Background(), e))
	assert.Equal(t, "a***@example.com", e.Email)
}

func TestForgetter_CycleVisitsOnce(t *testing.T) {
	a := &forgetMember{Name: "Ada"}
	b := &forgetMember{Name: "Bob", Friend: a}
	a.Friend = b

	g := &forgetGroup{Members: []*forgetMember{a, b, a}}
	require.NoError(t, newTestForgetter().Anonymize(context.Background(), g))

	// Anonymizing twice would mask the mask
	assert.Equal(t, "A**", a.Name)
	assert.Equal(t, "B**", b.Name)
}

func TestForgetter_Setter(t *testing.T) {
	s := &forgetSetter{email: "alice@example.com"}
	require.NoError(t, newTestForgetter().Anonymize(context.Background(), s))

	assert.Equal(t, "a***@example.com", s.email)
	assert.Equal(t, []string{"a***@example.com"}, s.log)
}

func TestForgetter_Anonymizable(t *testing.T) {
	s := &forgetSelf{Secret: "x"}
	require.NoError(t, newTestForgetter().Anonymize(context.Background(), s))
	assert.Equal(t, "***", s.Secret)
}

func TestForgetter_MissingAnonymizer(t *testing.T) {
	type custom struct {
		Code string `gdpr.anonymize:"vault"`
	}
	f := NewForgetter(WithMetadata(NewReader()))

	err := f.Anonymize(context.Background(), &custom{Code: "x"})
	var ce *ConfigurationError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "vault", ce.Type)
	assert.Equal(t, "Code", ce.Field)

	// Registering the type fixes it
	require.NoError(t, f.Registry().Register("vault", AnonymizerFunc(func(any, Options) (any, error) {
		return "sealed", nil
	})))
	c := &custom{Code: "x"}
	require.NoError(t, f.Anonymize(context.Background(), c))
	assert.Equal(t, "sealed", c.Code)
}

func TestForgetter_AnonymizerError(t *testing.T) {
	type custom struct {
		Code string `gdpr.anonymize:"fail"`
	}
	reg := NewRegistry(WithoutBuiltins())
	boom := errors.New("boom")
	require.NoError(t, reg.Register("fail", AnonymizerFunc(func(any, Options) (any, error) {
		return nil, boom
	})))
	f := NewForgetter(WithMetadata(NewReader()), WithRegistry(reg))

	err := f.Anonymize(context.Background(), &custom{})
	var te *TransformError
	require.ErrorAs(t, err, &te)
	assert.ErrorIs(t, err, ErrAnonymize)
	assert.Equal(t, "Code", te.Field)
	assert.ErrorIs(t, te.Cause, boom)
}

func TestForgetter_IncompatibleResult(t *testing.T) {
	type custom struct {
		Age int `gdpr.anonymize:"redact"`
	}
	f := newTestForgetter()

	err := f.Anonymize(context.Background(), &custom{Age: 3})
	assert.ErrorIs(t, err, ErrAnonymize)
}

func TestForgetter_ObjectOnScalar(t *testing.T) {
	type custom struct {
		Name string `gdpr.anonymize:"object"`
	}
	err := newTestForgetter().Anonymize(context.Background(), &custom{Name: "x"})
	assert.ErrorIs(t, err, ErrAnonymize)
}

func TestForgetter_RequiresPointer(t *testing.T) {
	f := newTestForgetter()

	assert.ErrorIs(t, f.Anonymize(context.Background(), forgetAddr{}), ErrNotSettable)
	assert.ErrorIs(t, f.Anonymize(context.Background(), (*forgetAddr)(nil)), ErrNotSettable)
	assert.ErrorIs(t, f.Anonymize(context.Background(), nil), ErrNotSettable)
}

func TestForgetter_NoSuchField(t *testing.T) {
	r := NewReader()
	require.NoError(t, r.Register(reflect.TypeFor[forgetAddr](), KindAnonymize, Marker{Field: "Zip", Type: AnonymizeRedact}))
	f := NewForgetter(WithMetadata(r))

	err := f.Anonymize(context.Background(), &forgetAddr{})
	assert.ErrorIs(t, err, ErrNoSuchField)
}
