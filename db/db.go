package db

import (
	"context"
	"errors"
	"time"

	"github.com/pratyushashukla/IP-BE/models"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// ErrNotFound is returned when a lookup matches no document. Callers use
// it to tell "unknown user" apart from a store outage.
var ErrNotFound = errors.New("record not found")

// UserStore is the user-record contract consumed by the auth flows and
// the session policy engine. Session-field updates are idempotent
// single-document writes; concurrent updates are last-write-wins.
type UserStore interface {
	EmailExists(ctx context.Context, email string) (bool, error)
	FindByEmail(ctx context.Context, email string) (models.User, error)
	FindByID(ctx context.Context, id models.UserID) (models.User, error)
	Create(ctx context.Context, user models.User) (models.User, error)

	// MarkActive flips the session on: tokenStatus=true, tokenCreatedAt=now.
	MarkActive(ctx context.Context, id models.UserID, now time.Time) error
	// MarkInactive flips the session off and clears both timestamps.
	MarkInactive(ctx context.Context, id models.UserID) error
	// TouchActivity stamps lastActivityTime on every authenticated request.
	TouchActivity(ctx context.Context, id models.UserID, now time.Time) error

	SetResetCode(ctx context.Context, id models.UserID, code string, expire time.Time) error
	ClearResetCode(ctx context.Context, id models.UserID) error
	UpdatePassword(ctx context.Context, id models.UserID, passwordHash string) error
}

// CollectionStore is the pass-through document access used by the
// resource routes. It carries no business validation; the documents go
// in and out as-is.
type CollectionStore interface {
	List(ctx context.Context, collection string) ([]bson.M, error)
	Get(ctx context.Context, collection, id string) (bson.M, error)
	Insert(ctx context.Context, collection string, doc bson.M) (string, error)
	Update(ctx context.Context, collection, id string, doc bson.M) (bson.M, error)
	Delete(ctx context.Context, collection, id string) error
}
