package application

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/classical-review/internal/domain/entity"
	repo "github.com/oksasatya/classical-review/internal/domain/repository"
	"github.com/oksasatya/classical-review/pkg/apperror"
	"github.com/oksasatya/classical-review/pkg/helpers"
	"github.com/oksasatya/classical-review/pkg/mailer"
)

const (
	MsgUsernameTaken    = "Username is already taken."
	MsgEmailRegistered  = "Email is already registered."
	MsgEmailNotVerified = "Email is not verified."
	MsgEmailVerified    = "Email is already verified."
	MsgAvatarNotImage   = "Avatar must be an image."
	MsgPasswordTooLong  = "Password must be at most 72 bytes."
)

var ErrAvatarsDisabled = errors.New("avatar storage not configured")

// UserIndexer mirrors public profile fields into the full-text index.
type UserIndexer interface {
	IndexUser(ctx context.Context, u *entity.User) error
}

// AvatarStore uploads avatar images and returns their public URL.
type AvatarStore interface {
	UploadAvatar(ctx context.Context, userID, filename, contentType string, r io.Reader) (string, error)
}

// AccountService covers registration, email verification, login sessions and
// profile edits.
type AccountService struct {
	Users      repo.UserRepository
	Sessions   repo.SessionRepository
	JWT        *helpers.JWTManager
	Mail       mailer.Sender
	Avatars    AvatarStore
	Index      UserIndexer
	SessionTTL time.Duration
	Logger     *logrus.Logger
}

func NewAccountService(users repo.UserRepository, sessions repo.SessionRepository, jwt *helpers.JWTManager, mail mailer.Sender, avatars AvatarStore, index UserIndexer, sessionTTL time.Duration, logger *logrus.Logger) *AccountService {
	return &AccountService{
		Users:      users,
		Sessions:   sessions,
		JWT:        jwt,
		Mail:       mail,
		Avatars:    avatars,
		Index:      index,
		SessionTTL: sessionTTL,
		Logger:     logger,
	}
}

type TokenPair struct {
	AccessToken        string
	AccessTokenExpiry  time.Time
	RefreshToken       string
	RefreshTokenExpiry time.Time
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// Register creates an unverified account and mails its verification link.
// The account stays even when the email cannot be sent; ResendVerification
// issues a new link.
func (s *AccountService) Register(ctx context.Context, in RegisterInput) (*entity.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	taken, err := s.Users.Exists(ctx, entity.ByUsername(in.Username))
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperror.Validation("username", MsgUsernameTaken)
	}
	registered, err := s.Users.Exists(ctx, entity.ByEmail(in.Email))
	if err != nil {
		return nil, err
	}
	if registered {
		return nil, apperror.Validation("email", MsgEmailRegistered)
	}

	hash, err := helpers.HashPassword(in.Password)
	if errors.Is(err, helpers.ErrPasswordTooLong) {
		return nil, apperror.Validation("password", MsgPasswordTooLong)
	}
	if err != nil {
		return nil, err
	}
	u := &entity.User{Username: in.Username, Email: in.Email, Password: hash}
	if err := s.Users.Create(ctx, u); err != nil {
		return nil, registrationConflict(err)
	}

	s.index(ctx, u)
	if err := s.sendVerification(ctx, u); err != nil {
		return u, err
	}
	return u, nil
}

// VerifyEmail redeems an email verification token. Redeeming a token of an
// already verified account succeeds without changes.
func (s *AccountService) VerifyEmail(ctx context.Context, token string) (*entity.User, error) {
	claims, err := s.JWT.ParseEmailVerificationToken(token)
	if err != nil {
		return nil, apperror.Authentication(err)
	}
	u, err := s.Users.Get(ctx, entity.ByID(claims.UserID))
	if errors.Is(err, apperror.ErrNotFound) {
		return nil, apperror.Authentication(err)
	}
	if err != nil {
		return nil, err
	}
	if u.IsVerified {
		return u, nil
	}
	if err := s.Users.SetVerified(ctx, u.ID); err != nil {
		return nil, err
	}
	u.IsVerified = true
	return u, nil
}

// registrationConflict reports a unique-constraint race on Create the same
// way as the pre-checks in Register.
func registrationConflict(err error) error {
	var de *apperror.DomainError
	if !errors.As(err, &de) || de.Kind != apperror.KindConflict {
		return err
	}
	if de.Message == MsgEmailRegistered {
		return apperror.Validation("email", MsgEmailRegistered)
	}
	return apperror.Validation("username", MsgUsernameTaken)
}

// ResendVerification issues a fresh verification link to an unverified user.
// Unknown identifiers succeed without sending anything, so the endpoint does
// not reveal which accounts exist.
func (s *AccountService) ResendVerification(ctx context.Context, identifier entity.UserIdentifier) error {
	u, err := s.Users.Get(ctx, identifier)
	if errors.Is(err, apperror.ErrNotFound) {
		if s.Logger != nil {
			s.Logger.WithField("column", identifier.Column()).Debug("verification resend for unknown user")
		}
		return nil
	}
	if err != nil {
		return err
	}
	if u.IsVerified {
		return apperror.Validation("email", MsgEmailVerified)
	}
	return s.sendVerification(ctx, u)
}

// Login resolves identifier as an email when it contains "@" and as a
// username otherwise.
func (s *AccountService) Login(ctx context.Context, identifier, password string) (*entity.User, TokenPair, error) {
	u, err := s.Users.Get(ctx, entity.ParseLoginIdentifier(identifier))
	if errors.Is(err, apperror.ErrNotFound) {
		return nil, TokenPair{}, apperror.Authentication(errors.New("unknown user"))
	}
	if err != nil {
		return nil, TokenPair{}, err
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		return nil, TokenPair{}, apperror.Authentication(errors.New("password mismatch"))
	}
	if !u.IsVerified {
		return nil, TokenPair{}, apperror.Validation("email", MsgEmailNotVerified)
	}

	pair, err := s.issueTokens(ctx, u)
	if err != nil {
		return nil, TokenPair{}, err
	}
	return u, pair, nil
}

// Refresh rotates the session id and both tokens. The refresh token must
// carry the session id currently stored for the user.
func (s *AccountService) Refresh(ctx context.Context, refreshToken string) (TokenPair, string, error) {
	claims, err := s.JWT.ParseRefreshToken(refreshToken)
	if err != nil {
		return TokenPair{}, "", apperror.Authentication(err)
	}
	if s.Sessions != nil {
		sess, err := s.Sessions.Get(ctx, claims.UserID)
		if errors.Is(err, apperror.ErrNotFound) {
			return TokenPair{}, "", apperror.Authentication(err)
		}
		if err != nil {
			return TokenPair{}, "", err
		}
		if sess.SessionID != claims.SessionID {
			return TokenPair{}, "", apperror.Authentication(errors.New("session rotated"))
		}
	}
	u, err := s.Users.Get(ctx, entity.ByID(claims.UserID))
	if errors.Is(err, apperror.ErrNotFound) {
		return TokenPair{}, "", apperror.Authentication(err)
	}
	if err != nil {
		return TokenPair{}, "", err
	}

	pair, err := s.issueTokens(ctx, u)
	if err != nil {
		return TokenPair{}, "", err
	}
	return pair, u.ID, nil
}

// Logout drops the user's session; outstanding tokens stop working.
func (s *AccountService) Logout(ctx context.Context, userID string) error {
	if s.Sessions == nil {
		return nil
	}
	return s.Sessions.Delete(ctx, userID)
}

func (s *AccountService) Profile(ctx context.Context, userID string) (*entity.User, error) {
	return s.Users.Get(ctx, entity.ByID(userID))
}

func (s *AccountService) UpdateBio(ctx context.Context, userID, bio string) (*entity.User, error) {
	u, err := s.Users.UpdateBio(ctx, userID, strings.TrimSpace(bio))
	if err != nil {
		return nil, err
	}
	s.index(ctx, u)
	return u, nil
}

// UploadAvatar stores r as the user's avatar and records its URL.
func (s *AccountService) UploadAvatar(ctx context.Context, userID string, r io.Reader, filename, contentType string) (*entity.User, error) {
	if !strings.HasPrefix(contentType, "image/") {
		return nil, apperror.Validation("avatar", MsgAvatarNotImage)
	}
	if s.Avatars == nil {
		return nil, ErrAvatarsDisabled
	}
	url, err := s.Avatars.UploadAvatar(ctx, userID, filename, contentType, r)
	if err != nil {
		return nil, err
	}
	u, err := s.Users.UpdateAvatar(ctx, userID, url)
	if err != nil {
		return nil, err
	}
	s.index(ctx, u)
	return u, nil
}

func (s *AccountService) sendVerification(ctx context.Context, u *entity.User) error {
	token, _, err := s.JWT.GenerateEmailVerificationToken(u.ID)
	if err != nil {
		return err
	}
	if err := s.Mail.SendVerificationEmail(ctx, u.Username, u.Email, token); err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Error("send verification email failed")
		}
		return err
	}
	return nil
}

// issueTokens generates access/refresh tokens and records the session.
func (s *AccountService) issueTokens(ctx context.Context, u *entity.User) (TokenPair, error) {
	sid := uuid.NewString()
	access, aexp, err := s.JWT.GenerateAccessToken(u.ID, sid)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, rexp, err := s.JWT.GenerateRefreshToken(u.ID, sid)
	if err != nil {
		return TokenPair{}, err
	}

	if s.Sessions != nil {
		now := time.Now().UTC()
		sess := &entity.Session{UserID: u.ID, SessionID: sid, Username: u.Username, Email: u.Email, CreatedAt: now, UpdatedAt: now}
		if err := s.Sessions.Save(ctx, sess, s.SessionTTL); err != nil {
			return TokenPair{}, err
		}
	}
	return TokenPair{AccessToken: access, AccessTokenExpiry: aexp, RefreshToken: refresh, RefreshTokenExpiry: rexp}, nil
}

func (s *AccountService) index(ctx context.Context, u *entity.User) {
	if s.Index == nil {
		return
	}
	if err := s.Index.IndexUser(ctx, u); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Warn("user index failed")
	}
}
