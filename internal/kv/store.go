package kv

import (
	"context"
	"errors"
)

// Keys used by the lab records store. They match the keys the mobile app
// writes, so an exported device store stays readable.
const (
	IntakeKey      = "hglcustomers"
	CertificateKey = "hglcards"
	JobCounterKey  = "hgljob"
)

// AllKeys lists every key owned by the records store.
var AllKeys = []string{IntakeKey, CertificateKey, JobCounterKey}

// ErrClosed is returned by backends used after Close.
var ErrClosed = errors.New("kv: store closed")

// Store is the persistence substrate the records store is built on.
//
// RemoveMany must be atomic: either every key is removed or an error is
// returned and none are.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	RemoveMany(ctx context.Context, keys ...string) error
	Ping(ctx context.Context) error
	Close() error
}
