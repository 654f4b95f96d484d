package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/paisatrack/paisatrack/internal/auth"
	"github.com/paisatrack/paisatrack/internal/config"
	"github.com/paisatrack/paisatrack/internal/domain/job"
	"github.com/paisatrack/paisatrack/internal/domain/user"
	"github.com/paisatrack/paisatrack/internal/jobs"
	"github.com/paisatrack/paisatrack/internal/repo/postgres"
	"github.com/paisatrack/paisatrack/internal/security"
)

type UserReader interface {
	GetByEmail(ctx context.Context, email string) (user.User, error)
}

type UserWriter interface {
	Create(ctx context.Context, email, passwordHash, name string) (user.User, error)
}

type JobsEnqueuer interface {
	Create(ctx context.Context, req job.CreateRequest) (job.Job, error)
}

type AuthHandler struct {
	users      UserReader
	userWriter UserWriter
	jwt        *auth.Manager
	jobsRepo   JobsEnqueuer // nil disables async notifications
}

func NewAuthHandler(users UserReader, userWriter UserWriter, jwtManager *auth.Manager, jobsRepo JobsEnqueuer) *AuthHandler {
	return &AuthHandler{
		users:      users,
		userWriter: userWriter,
		jwt:        jwtManager,
		jobsRepo:   jobsRepo,
	}
}

// Login only presence-checks the email; a malformed address takes the lookup
// path and comes back as invalid credentials, same as any unknown email.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type SignUpRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Name     string `json:"name" binding:"required"`
}

func (h *AuthHandler) Login(ctx *gin.Context) {
	var req LoginRequest

	if !BindJSON(ctx, &req, "Missing email or password") {
		return
	}

	// short timeout for DB lookup
	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	foundUser, err := h.users.GetByEmail(cctx, req.Email)
	if err != nil {
		if errors.Is(err, postgres.ErrUserNotFound) {
			// same message as a wrong password, to avoid enumeration
			RespondUnauthorized(ctx, "Invalid credentials")
			return
		}

		RespondInternal(ctx)
		return
	}

	err = security.CheckPassword(foundUser.PasswordHash, req.Password)

	if err != nil {
		RespondUnauthorized(ctx, "Invalid credentials")
		return
	}

	token, err := h.jwt.GenerateToken(foundUser.ID, foundUser.Email)

	if err != nil {
		RespondInternal(ctx)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  foundUser.Public(),
	})
}

func (h *AuthHandler) SignUp(ctx *gin.Context) {
	var req SignUpRequest

	if !BindJSON(ctx, &req, "Missing email, password or name") {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)

	defer cancel()

	hash, err := security.HashPassword(req.Password)

	if err != nil {
		RespondInternal(ctx)
		return
	}

	u, err := h.userWriter.Create(cctx, req.Email, hash, req.Name)

	if err != nil {
		if errors.Is(err, postgres.ErrEmailAlreadyUsed) {
			RespondBadRequest(ctx, "Email already in use")
			return
		}

		RespondInternal(ctx)
		return
	}

	token, err := h.jwt.GenerateToken(u.ID, u.Email)

	if err != nil {
		RespondInternal(ctx)
		return
	}

	h.enqueueWelcome(cctx, u)

	ctx.JSON(http.StatusCreated, gin.H{
		"token": token,
		"user":  u.Public(),
	})
}

// enqueueWelcome schedules the welcome notification. Signup never fails
// because of the job queue.
func (h *AuthHandler) enqueueWelcome(ctx context.Context, u user.User) {
	if h.jobsRepo == nil {
		return
	}

	payload := jobs.WelcomeNotificationPayload{
		UserID:      u.ID,
		Email:       u.Email,
		Name:        u.Name,
		RequestedAt: time.Now().UTC(),
	}

	raw, err := jobs.EncodePayload(jobs.JobWelcomeNotification, payload)

	if err != nil {
		return
	}

	key := "welcome:" + u.ID

	_, err = h.jobsRepo.Create(ctx, job.CreateRequest{
		Type:           string(jobs.JobWelcomeNotification),
		Payload:        raw,
		IdempotencyKey: &key,
	})

	if err != nil && !postgres.IsUniqueViolation(err) {
		// log-and-continue is handled by the caller's request logger; the
		// signup itself already succeeded
		return
	}
}
