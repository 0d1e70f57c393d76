package domain

import (
	"crypto/rand"
	"errors"
	"math/big"
	"time"
)

var (
	ErrLinkNotFound = errors.New("link not found")
	ErrCodeExists   = errors.New("code already exists")
	ErrLinkInactive = errors.New("link is inactive")
	ErrInvalidURL   = errors.New("invalid url")
	ErrInvalidCode  = errors.New("invalid code")
)

// Link is a shortened link record. The code is the primary key and is
// immutable after creation.
type Link struct {
	Code          string    `db:"code" json:"code"`
	URL           string    `db:"url" json:"url"`
	Password      *string   `db:"password" json:"password"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	Active        bool      `db:"active" json:"active"`
	VisitCount    int64     `db:"visit_count" json:"visit_count"`
	RawVisitCount int64     `db:"raw_visit_count" json:"raw_visit_count"`
	LastVisited   time.Time `db:"last_visited" json:"last_visited"`
}

func NewLink(code, url string, password *string, active bool) (*Link, error) {
	if code == "" {
		return nil, ErrInvalidCode
	}
	if url == "" {
		return nil, ErrInvalidURL
	}

	now := time.Now().UTC()
	return &Link{
		Code:        code,
		URL:         url,
		Password:    password,
		CreatedAt:   now,
		Active:      active,
		LastVisited: now,
	}, nil
}

// Clone returns an independent copy of the link. The cache hands out clones
// so that a caller's mutations never reach the cached record without an
// explicit write-back.
func (l *Link) Clone() *Link {
	c := *l
	if l.Password != nil {
		pw := *l.Password
		c.Password = &pw
	}
	return &c
}

// HasPassword reports whether resolving this link requires a password.
func (l *Link) HasPassword() bool {
	return l.Password != nil && *l.Password != ""
}

// CheckPassword compares a submitted password against the stored one.
// Comparison is exact and case-sensitive.
func (l *Link) CheckPassword(candidate string) bool {
	if !l.HasPassword() {
		return true
	}
	return candidate == *l.Password
}

// RegisterAttempt records that the link's resolution page was served,
// regardless of whether the visitor got past the password gate.
func (l *Link) RegisterAttempt() {
	l.RawVisitCount++
}

// RegisterVisit records a successful redirect.
func (l *Link) RegisterVisit() {
	l.VisitCount++
	l.LastVisited = time.Now().UTC()
}

const codeAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateCode returns a random short code of the given length drawn from
// the alphanumeric alphabet. Uniqueness is not checked here; callers retry
// on a store conflict.
func GenerateCode(length int) string {
	b := make([]byte, length)
	max := big.NewInt(int64(len(codeAlphabet)))
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand failing means the platform is broken; there is
			// no reasonable recovery for code generation.
			panic(err)
		}
		b[i] = codeAlphabet[n.Int64()]
	}
	return string(b)
}
