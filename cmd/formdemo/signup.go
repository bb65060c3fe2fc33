package main

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrymomot/formkit/pkg/form"
)

var errInvalidSignup = errors.New("invalid signup")

// signup is an accepted form submission. The password is only kept hashed.
type signup struct {
	Email        string
	Plan         string
	PasswordHash []byte
	CreatedAt    time.Time
}

// signups keeps accepted submissions in memory.
type signups struct {
	mu   sync.RWMutex
	list []signup
	cost int
}

func newSignups(cost int) *signups {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &signups{cost: cost}
}

func (s *signups) add(state form.State) (signup, error) {
	email, _ := state["email"].(string)
	plan, _ := state["plan"].(string)
	password, _ := state["password"].(string)
	if email == "" || password == "" {
		return signup{}, errInvalidSignup
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return signup{}, fmt.Errorf("hash password: %w", err)
	}

	rec := signup{Email: email, Plan: plan, PasswordHash: hash, CreatedAt: time.Now()}
	s.mu.Lock()
	s.list = append(s.list, rec)
	s.mu.Unlock()
	return rec, nil
}

func (s *signups) find(email string) (signup, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, rec := range s.list {
		if rec.Email == email {
			return rec, true
		}
	}
	return signup{}, false
}
