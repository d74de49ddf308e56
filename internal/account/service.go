package account

import (
	"context"
	"errors"
	"strings"

	"legaldoc-backend/internal/userdata"
)

// Info summarizes what the service knows about an email at analysis time.
// The lookup is advisory: an unrecognized email does not block analysis
// unless the caller enforces it.
type Info struct {
	Email            string `json:"email"`
	EmailRecognized  bool   `json:"emailRecognized"`
	RecordCount      int    `json:"recordCount"`
	MostRecentSerial int    `json:"mostRecentSerial,omitempty"`
}

// Service resolves account information from stored user data.
type Service struct {
	Repo userdata.Repo
}

// NewService constructs a Service.
func NewService(repo userdata.Repo) *Service {
	return &Service{Repo: repo}
}

// Lookup reports whether the email has stored records and how many.
// A missing account is not an error.
func (s *Service) Lookup(ctx context.Context, email string) (Info, error) {
	info := Info{Email: strings.TrimSpace(email)}
	if info.Email == "" || s.Repo == nil {
		return info, nil
	}
	records, err := s.Repo.Get(ctx, info.Email)
	if err != nil {
		if errors.Is(err, userdata.ErrNotFound) {
			return info, nil
		}
		return info, err
	}
	info.EmailRecognized = true
	info.RecordCount = len(records)
	if len(records) > 0 {
		info.MostRecentSerial = records[len(records)-1].Serial
	}
	return info, nil
}
