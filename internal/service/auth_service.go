package service

import (
	"context"
	"errors"
	"strings"

	"bluemoon/internal/domain"
	"bluemoon/internal/logger"
	"bluemoon/internal/repository"
	"bluemoon/internal/ws"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrWeakPassword       = errors.New("password must be at least 6 characters")
)

// AuthService handles registration and login. Registration resolves
// the supplied referral code and creates the pending referral in the
// same database transaction as the new account; an unresolvable code
// is skipped silently and registration still succeeds.
type AuthService struct {
	db           *pgxpool.Pool
	userRepo     *repository.UserRepository
	referralRepo *repository.ReferralRepository
	hub          *ws.Hub
}

func NewAuthService(db *pgxpool.Pool, hub *ws.Hub) *AuthService {
	return &AuthService{
		db:           db,
		userRepo:     repository.NewUserRepository(db),
		referralRepo: repository.NewReferralRepository(db),
		hub:          hub,
	}
}

type RegisterInput struct {
	Email        string
	Password     string
	DisplayName  string
	Phone        string
	ReferralCode string
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" {
		return nil, ErrInvalidCredentials
	}
	if len(in.Password) < 6 {
		return nil, ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	code, err := ensureUniqueCode(ctx, s.userRepo.CodeExists)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	u := &domain.User{
		Email:        email,
		Phone:        in.Phone,
		DisplayName:  in.DisplayName,
		ReferralCode: code,
		ReferredBy:   in.ReferralCode,
	}
	err = tx.QueryRow(ctx, `
		INSERT INTO users (email, phone, password_hash, display_name, referral_code, referred_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`, email, in.Phone, string(hash), in.DisplayName, code, in.ReferralCode).
		Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		// Two concurrent signups race to the same email; the unique
		// constraint is the arbiter, not a prior SELECT.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == "users_email_key" {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	var referrerID int64
	if in.ReferralCode != "" {
		var referrerName string
		err := tx.QueryRow(ctx,
			`SELECT id, display_name FROM users WHERE referral_code = $1`,
			in.ReferralCode,
		).Scan(&referrerID, &referrerName)
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			// Unknown code: registration proceeds without a referral.
			referrerID = 0
		case err != nil:
			return nil, err
		default:
			created, err := s.referralRepo.CreateWithTx(ctx, tx, &domain.Referral{
				ReferrerID:     referrerID,
				ReferrerName:   referrerName,
				ReferredUserID: u.ID,
				ReferredName:   in.DisplayName,
				ReferredEmail:  email,
				ReferredPhone:  in.Phone,
				ReferralCode:   in.ReferralCode,
			})
			if err != nil {
				return nil, err
			}
			if created {
				if _, err := tx.Exec(ctx,
					`UPDATE users SET total_referrals = total_referrals + 1, updated_at = now() WHERE id = $1`,
					referrerID,
				); err != nil {
					return nil, err
				}
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	logger.Info("user registered", "user_id", u.ID, "referred", referrerID != 0)
	if referrerID != 0 {
		s.hub.Publish(ws.Event{Type: ws.EventReferral, UserID: referrerID})
	}
	return u, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	id, hash, err := s.userRepo.GetCredentials(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	return s.userRepo.GetByID(ctx, id)
}
