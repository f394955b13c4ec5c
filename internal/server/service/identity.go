package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/IvanChernomyrdin/go-session-keeper/internal/server/config"
	"github.com/IvanChernomyrdin/go-session-keeper/internal/server/crypto"
	"github.com/IvanChernomyrdin/go-session-keeper/internal/server/models"
	serr "github.com/IvanChernomyrdin/go-session-keeper/internal/shared/errors"
	"github.com/IvanChernomyrdin/go-session-keeper/internal/shared/logger"
)

// символы, допустимые в имени пользователя помимо букв и цифр
const userNameExtraChars = "-._@+"

var emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// IdentityManager реализует IdentityStore поверх репозитория пользователей.
//
// Ответственность:
//   - хэширование и проверка паролей (argon2id)
//   - валидация регистрации (имя, email, политика паролей, уникальность)
//   - хранение refresh-токенов в виде SHA-256 отпечатков
type IdentityManager struct {
	users UsersRepo
	log   *logger.HTTPLogger

	pass           crypto.Argon2Params
	policy         config.PasswordPolicy
	requireConfirm bool

	// хэш, с которым сравниваем пароль несуществующего пользователя
	dummyHash string
	now       func() time.Time
}

// NewIdentityManager создаёт IdentityManager с настройками из конфига.
func NewIdentityManager(users UsersRepo, cfg *config.Config, log *logger.HTTPLogger) *IdentityManager {
	if log == nil {
		log = logger.Nop()
	}

	m := &IdentityManager{
		users: users,
		log:   log,
		pass: crypto.Argon2Params{
			Time:      cfg.Password.Argon2.Time,
			MemoryKiB: cfg.Password.Argon2.MemoryKiB,
			Threads:   cfg.Password.Argon2.Threads,
			KeyLen:    cfg.Password.Argon2.KeyLen,
			SaltLen:   cfg.Password.Argon2.SaltLen,
		},
		policy:         cfg.Password.Policy,
		requireConfirm: cfg.Auth.RequireConfirmedEmail,
		now:            time.Now,
	}

	dummy, err := crypto.HashPassword(uuid.NewString(), m.pass)
	if err != nil {
		log.Warn("dummy password hash is unavailable", zap.Error(err))
	}
	m.dummyHash = dummy

	return m
}

// VerifyPassword проверяет пару имя/пароль.
//
// Поведение:
//   - не раскрывает факт существования пользователя (для неизвестного имени
//     всё равно считается argon2 по фиктивному хэшу);
//   - при require_confirmed_email не пускает без подтверждённого email;
//   - после успешной проверки перехэширует пароль, если сменились параметры argon2.
func (m *IdentityManager) VerifyPassword(ctx context.Context, userName, password string) (models.Identity, bool, error) {
	u, err := m.users.GetByUserName(ctx, normalize(userName))
	if err != nil {
		if errors.Is(err, serr.ErrNotFound) {
			_, _ = crypto.VerifyPassword(password, m.dummyHash)
			return models.Identity{}, false, nil
		}
		return models.Identity{}, false, err
	}

	ok, err := crypto.VerifyPassword(password, u.PasswordHash)
	if err != nil {
		return models.Identity{}, false, fmt.Errorf("%w: stored password hash: %v", serr.ErrPersistence, err)
	}
	if !ok {
		return models.Identity{}, false, nil
	}

	if m.requireConfirm && !u.EmailConfirmed {
		m.log.LogSecurityEvent("sign_in_unconfirmed_email", serr.ErrInvalidCredentials, zap.String("user_id", u.ID.String()))
		return models.Identity{}, false, nil
	}

	if crypto.NeedsRehash(u.PasswordHash, m.pass) {
		m.rehash(ctx, u, password)
	}

	return u, true, nil
}

// CreateIdentity валидирует данные и сохраняет пользователя с ролями.
//
// Все найденные проблемы возвращаются разом в serr.ValidationErrors.
func (m *IdentityManager) CreateIdentity(ctx context.Context, data models.RegistrationData, roles []string, autoConfirm bool) (models.Identity, error) {
	userName := strings.TrimSpace(data.UserName)
	email := strings.TrimSpace(data.Email)

	var verrs serr.ValidationErrors
	m.validateUserName(ctx, &verrs, userName)
	m.validateEmail(ctx, &verrs, email)
	m.validatePassword(&verrs, data.Password)
	if len(verrs) > 0 {
		return models.Identity{}, verrs
	}

	hash, err := crypto.HashPassword(data.Password, m.pass)
	if err != nil {
		return models.Identity{}, fmt.Errorf("%w: %v", serr.ErrInternal, err)
	}

	u := models.Identity{
		ID:                 uuid.New(),
		UserName:           userName,
		NormalizedUserName: normalize(userName),
		Email:              email,
		NormalizedEmail:    normalize(email),
		EmailConfirmed:     autoConfirm,
		PasswordHash:       hash,
		FirstName:          strings.TrimSpace(data.FirstName),
		LastName:           strings.TrimSpace(data.LastName),
		PhoneNumber:        strings.TrimSpace(data.PhoneNumber),
		CreatedAt:          m.now().UTC(),
	}

	if err := m.users.Create(ctx, u, roles); err != nil {
		// гонка двух регистраций: уникальный индекс сработал уже после проверки
		switch {
		case errors.Is(err, serr.ErrDuplicateUserName):
			verrs.Add(serr.CodeDuplicateUserName, fmt.Sprintf("Username '%s' is already taken.", userName))
			return models.Identity{}, verrs
		case errors.Is(err, serr.ErrDuplicateEmail):
			verrs.Add(serr.CodeDuplicateEmail, fmt.Sprintf("Email '%s' is already taken.", email))
			return models.Identity{}, verrs
		}
		return models.Identity{}, err
	}

	return u, nil
}

func (m *IdentityManager) GetRoles(ctx context.Context, id uuid.UUID) ([]string, error) {
	return m.users.GetRoles(ctx, id)
}

// UpdateRefreshFields сохраняет отпечаток нового refresh-токена.
func (m *IdentityManager) UpdateRefreshFields(ctx context.Context, id uuid.UUID, handle string, expiry *time.Time) error {
	return m.users.UpdateRefresh(ctx, id, crypto.HashRefreshHandle(handle), expiry)
}

func (m *IdentityManager) FindByRefreshHandle(ctx context.Context, handle string) (models.Identity, error) {
	return m.users.GetByRefreshHash(ctx, crypto.HashRefreshHandle(handle))
}

func (m *IdentityManager) FindByUserName(ctx context.Context, userName string) (models.Identity, error) {
	return m.users.GetByUserName(ctx, normalize(userName))
}

func (m *IdentityManager) ClearRefreshFields(ctx context.Context, id uuid.UUID) error {
	return m.users.ClearRefresh(ctx, id)
}

func (m *IdentityManager) rehash(ctx context.Context, u models.Identity, password string) {
	hash, err := crypto.HashPassword(password, m.pass)
	if err == nil {
		err = m.users.UpdatePasswordHash(ctx, u.ID, hash)
	}
	if err != nil {
		// вход уже успешен, старый хэш продолжает работать
		m.log.Warn("password rehash failed", zap.String("user_id", u.ID.String()), zap.Error(err))
	}
}

func (m *IdentityManager) validateUserName(ctx context.Context, verrs *serr.ValidationErrors, userName string) {
	if !validUserName(userName) {
		verrs.Add(serr.CodeInvalidUserName,
			fmt.Sprintf("Username '%s' is invalid, can only contain letters, digits and '%s'.", userName, userNameExtraChars))
		return
	}
	if _, err := m.users.GetByUserName(ctx, normalize(userName)); err == nil {
		verrs.Add(serr.CodeDuplicateUserName, fmt.Sprintf("Username '%s' is already taken.", userName))
	}
}

func (m *IdentityManager) validateEmail(ctx context.Context, verrs *serr.ValidationErrors, email string) {
	if !emailRe.MatchString(email) {
		verrs.Add(serr.CodeInvalidEmail, fmt.Sprintf("Email '%s' is invalid.", email))
		return
	}
	if _, err := m.users.GetByEmail(ctx, normalize(email)); err == nil {
		verrs.Add(serr.CodeDuplicateEmail, fmt.Sprintf("Email '%s' is already taken.", email))
	}
}

func (m *IdentityManager) validatePassword(verrs *serr.ValidationErrors, password string) {
	p := m.policy

	if len([]rune(password)) < p.MinLength {
		verrs.Add(serr.CodePasswordTooShort,
			fmt.Sprintf("Passwords must be at least %d characters.", p.MinLength))
	}

	var digit, lower, upper, other bool
	for _, r := range password {
		switch {
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case !unicode.IsLetter(r):
			other = true
		}
	}

	if p.RequireNonAlphanumeric && !other {
		verrs.Add(serr.CodePasswordRequiresNonAlphanumeric, "Passwords must have at least one non alphanumeric character.")
	}
	if p.RequireDigit && !digit {
		verrs.Add(serr.CodePasswordRequiresDigit, "Passwords must have at least one digit ('0'-'9').")
	}
	if p.RequireLower && !lower {
		verrs.Add(serr.CodePasswordRequiresLower, "Passwords must have at least one lowercase ('a'-'z').")
	}
	if p.RequireUpper && !upper {
		verrs.Add(serr.CodePasswordRequiresUpper, "Passwords must have at least one uppercase ('A'-'Z').")
	}
}

func validUserName(userName string) bool {
	if userName == "" {
		return false
	}
	for _, r := range userName {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || strings.ContainsRune(userNameExtraChars, r) {
			continue
		}
		return false
	}
	return true
}

// normalize — ключ поиска без учёта регистра.
func normalize(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
