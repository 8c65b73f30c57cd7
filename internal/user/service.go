package user

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCode = errors.New("invalid verification code")

const DefaultCodeTTL = 10 * time.Minute

type Service struct {
	repo    Repository
	codes   CodeStore
	codeTTL time.Duration
	log     logrus.FieldLogger
}

func NewService(repo Repository, codes CodeStore, codeTTL time.Duration, log logrus.FieldLogger) *Service {
	if codeTTL <= 0 {
		codeTTL = DefaultCodeTTL
	}
	return &Service{repo: repo, codes: codes, codeTTL: codeTTL, log: log}
}

func (s *Service) GetByID(id int) (User, error) {
	return s.repo.GetByID(id)
}

func (s *Service) Update(id int, user User) (User, error) {
	user.UpdatedAt = now()
	return s.repo.Update(id, user)
}

func (s *Service) Register(user User) (User, error) {
	if _, err := s.repo.GetByEmail(user.Email); err == nil {
		return User{}, ErrEmailExists
	} else if err != ErrNotFound {
		return User{}, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, err
	}

	user.Password = string(hashed)
	user.CreatedAt = now()
	user.UpdatedAt = user.CreatedAt
	return s.repo.Create(user)
}

func (s *Service) Authenticate(email, password string) (User, error) {
	user, err := s.repo.GetByEmail(email)
	if err != nil {
		return User{}, ErrInvalidCredentials
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return User{}, ErrInvalidCredentials
	}

	return user, nil
}

// StartVerification issues a fresh code for the phone, replacing any code
// still pending. Delivery belongs to the SMS provider; the code is only
// logged at debug level.
func (s *Service) StartVerification(ctx context.Context, phone string) error {
	phone = strings.TrimSpace(phone)
	code, err := newCode()
	if err != nil {
		return err
	}
	if err := s.codes.Save(ctx, phone, code, s.codeTTL); err != nil {
		return err
	}
	s.log.WithFields(logrus.Fields{"phone": phone, "code": code}).Debug("verification code issued")
	return nil
}

// CompleteVerification checks the code and signs the phone's owner in,
// creating the account on first use. A wrong or expired code returns
// ErrInvalidCode and leaves a pending code usable.
func (s *Service) CompleteVerification(ctx context.Context, phone, code string) (User, error) {
	phone = strings.TrimSpace(phone)
	ok, err := s.codes.Verify(ctx, phone, strings.TrimSpace(code))
	if err != nil {
		return User{}, err
	}
	if !ok {
		return User{}, ErrInvalidCode
	}

	existing, err := s.repo.GetByPhone(phone)
	switch {
	case err == nil:
		if existing.PhoneVerified {
			return existing, nil
		}
		existing.PhoneVerified = true
		existing.UpdatedAt = now()
		return s.repo.Update(existing.ID, existing)
	case errors.Is(err, ErrNotFound):
		created := now()
		u, err := s.repo.Create(User{Phone: phone, PhoneVerified: true, CreatedAt: created, UpdatedAt: created})
		if err == nil {
			s.log.WithField("user", u.ID).Info("account created from phone verification")
		}
		return u, err
	default:
		return User{}, err
	}
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}
