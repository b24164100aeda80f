package service

import (
	"strings"
	"time"

	"github.com/maycoffee/maycoffee-api/internal/config"
	"github.com/maycoffee/maycoffee-api/internal/domain"
	"github.com/maycoffee/maycoffee-api/internal/errors"
	"github.com/maycoffee/maycoffee-api/internal/logger"
	"github.com/maycoffee/maycoffee-api/internal/password"
	"github.com/maycoffee/maycoffee-api/internal/verifcode"
)

type AuthService interface {
	// Register creates an unverified account and mails a verification code.
	// The returned devCode is the raw code when no mail provider is
	// configured outside production, empty otherwise.
	Register(name, email, pass string) (user domain.User, devCode string, err error)
	VerifyEmail(email, code string) (domain.User, error)
	Login(email, pass string) (domain.User, error)
	ResendCode(email, locale string) (devCode string, err error)
}

type AuthStorage interface {
	CreateUser(user domain.User) (domain.User, error)
	UserByEmail(email string) (domain.User, error)
	MarkEmailVerified(id domain.UserId, role domain.Role) (domain.User, error)
	SaveVerificationCode(code domain.VerificationCode) error
	LatestVerificationCode(userId domain.UserId, code string) (domain.VerificationCode, error)
	InvitationByEmail(email string) (domain.AdminInvitation, error)
	DeleteInvitation(email string) error
}

type AuthNotifier interface {
	SendVerificationCode(email, name, code, locale string)
}

type Auth struct {
	storage  AuthStorage
	notifier AuthNotifier
	cfg      *config.Config
}

func NewAuth(storage AuthStorage, notifier AuthNotifier, cfg *config.Config) *Auth {
	return &Auth{storage: storage, notifier: notifier, cfg: cfg}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// exposeDevCode reports whether the raw verification code may be echoed to
// the API caller. Development convenience only, never in production.
func (a *Auth) exposeDevCode() bool {
	return !a.cfg.MailConfigured() && !a.cfg.IsProduction()
}

func (a *Auth) issueCode(userId domain.UserId) (string, error) {
	code := verifcode.Issue()
	err := a.storage.SaveVerificationCode(domain.VerificationCode{
		UserId:    userId,
		Code:      code,
		ExpiresAt: time.Now().UTC().Add(a.cfg.Public.CodeTTL.Duration),
	})
	if err != nil {
		return "", err
	}
	return code, nil
}

func (a *Auth) Register(name, email, pass string) (domain.User, string, error) {
	email = normalizeEmail(email)

	if _, err := a.storage.UserByEmail(email); err == nil {
		return domain.User{}, "", errors.Conflict("Email already registered")
	} else if !errors.IsNotFound(err) {
		return domain.User{}, "", err
	}

	passHash, err := password.Hash(pass)
	if err != nil {
		logger.Log.Error("failed to hash password", "error", err)
		return domain.User{}, "", err
	}

	user, err := a.storage.CreateUser(domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: passHash,
	})
	if err != nil {
		return domain.User{}, "", err
	}

	code, err := a.issueCode(user.Id)
	if err != nil {
		return domain.User{}, "", err
	}

	a.notifier.SendVerificationCode(user.Email, user.Name, code, "vi")

	if a.exposeDevCode() {
		return user, code, nil
	}
	return user, "", nil
}

func (a *Auth) VerifyEmail(email, code string) (domain.User, error) {
	email = normalizeEmail(email)

	user, err := a.storage.UserByEmail(email)
	if err != nil {
		if errors.IsNotFound(err) {
			return domain.User{}, errors.NotFound("User does not exist")
		}
		return domain.User{}, err
	}
	if user.IsEmailVerified {
		return domain.User{}, errors.BadRequest("Email already verified")
	}

	record, err := a.storage.LatestVerificationCode(user.Id, code)
	if err != nil {
		if errors.IsNotFound(err) {
			return domain.User{}, errors.BadRequest("Invalid or expired code")
		}
		return domain.User{}, err
	}
	if record.Expired(time.Now()) {
		return domain.User{}, errors.BadRequest("Invalid or expired code")
	}

	invited := false
	if _, err := a.storage.InvitationByEmail(email); err == nil {
		invited = true
	} else if !errors.IsNotFound(err) {
		return domain.User{}, err
	}

	role := domain.ResolveRoleOnVerify(email, invited, a.cfg.BootstrapAdminEmail())

	verified, err := a.storage.MarkEmailVerified(user.Id, role)
	if err != nil {
		return domain.User{}, err
	}

	if invited {
		if err := a.storage.DeleteInvitation(email); err != nil {
			return domain.User{}, err
		}
	}

	return verified, nil
}

func (a *Auth) Login(email, pass string) (domain.User, error) {
	email = normalizeEmail(email)

	user, err := a.storage.UserByEmail(email)
	if err != nil {
		// same message as a wrong password, to not leak existing accounts
		if errors.IsNotFound(err) {
			return domain.User{}, errors.Unauthorized("Invalid credentials")
		}
		return domain.User{}, err
	}

	if !user.IsEmailVerified {
		return domain.User{}, errors.Forbidden("Please verify your email before logging in")
	}

	if !password.Verify(pass, user.PasswordHash) {
		return domain.User{}, errors.Unauthorized("Invalid credentials")
	}

	return user, nil
}

func (a *Auth) ResendCode(email, locale string) (string, error) {
	email = normalizeEmail(email)

	user, err := a.storage.UserByEmail(email)
	if err != nil {
		if errors.IsNotFound(err) {
			return "", errors.NotFound("User does not exist")
		}
		return "", err
	}
	if user.IsEmailVerified {
		return "", errors.BadRequest("Email already verified")
	}

	code, err := a.issueCode(user.Id)
	if err != nil {
		return "", err
	}

	a.notifier.SendVerificationCode(user.Email, user.Name, code, locale)

	if a.exposeDevCode() {
		return code, nil
	}
	return "", nil
}
