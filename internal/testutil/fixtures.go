package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/mpetrov/taskhub/internal/domain"
)

// UserBuilder creates test users with a builder pattern
type UserBuilder struct {
	name     string
	email    string
	password string
	bio      string
}

// NewUserBuilder creates a new UserBuilder with default values
func NewUserBuilder() *UserBuilder {
	suffix := uuid.New().String()[:8]
	return &UserBuilder{
		name:     fmt.Sprintf("testuser_%s", suffix),
		email:    fmt.Sprintf("testuser_%s@example.com", suffix),
		password: "testpassword123",
	}
}

// WithName sets the display name
func (b *UserBuilder) WithName(name string) *UserBuilder {
	b.name = name
	return b
}

// WithEmail sets the email
func (b *UserBuilder) WithEmail(email string) *UserBuilder {
	b.email = email
	return b
}

// WithPassword sets the password
func (b *UserBuilder) WithPassword(password string) *UserBuilder {
	b.password = password
	return b
}

// WithBio sets the bio
func (b *UserBuilder) WithBio(bio string) *UserBuilder {
	b.bio = bio
	return b
}

// Build creates the user in the database and returns the user with the raw password
func (b *UserBuilder) Build(t *testing.T, db *gorm.DB) (*domain.User, string) {
	t.Helper()

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(b.password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &domain.User{
		ID:           uuid.New(),
		Name:         b.name,
		Email:        domain.NormalizeEmail(b.email),
		PasswordHash: string(hashedPassword),
		Bio:          b.bio,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	return user, b.password
}

// AuthResponse matches the API auth response
type AuthResponse struct {
	User  domain.User `json:"user"`
	Token string      `json:"token"`
}

// BuildAndAuthenticate creates a user via the API and returns the user and token
func (b *UserBuilder) BuildAndAuthenticate(t *testing.T, ts *TestServer) (*domain.User, string) {
	t.Helper()

	reqBody := map[string]string{
		"name":     b.name,
		"email":    b.email,
		"password": b.password,
	}
	body, _ := json.Marshal(reqBody)

	resp, err := http.Post(ts.APIURL("/auth/register"), "application/json", bytes.NewBuffer(body))
	if err != nil {
		t.Fatalf("failed to register user: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		raw, _ := io.ReadAll(resp.Body)
		t.Fatalf("unexpected status code: %d, body: %s", resp.StatusCode, raw)
	}

	var authResp AuthResponse
	if err := json.NewDecoder(resp.Body).Decode(&authResp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	user := authResp.User
	return &user, authResp.Token
}

// TaskBuilder creates test tasks with a builder pattern
type TaskBuilder struct {
	ownerID     uuid.UUID
	title       string
	description string
	status      domain.TaskStatus
	priority    domain.TaskPriority
	dueDate     *time.Time
}

// NewTaskBuilder creates a new TaskBuilder with default values
func NewTaskBuilder(ownerID uuid.UUID) *TaskBuilder {
	return &TaskBuilder{
		ownerID:  ownerID,
		title:    fmt.Sprintf("Test task %s", uuid.New().String()[:8]),
		status:   domain.TaskStatusPending,
		priority: domain.TaskPriorityMedium,
	}
}

// WithTitle sets the title
func (b *TaskBuilder) WithTitle(title string) *TaskBuilder {
	b.title = title
	return b
}

// WithDescription sets the description
func (b *TaskBuilder) WithDescription(description string) *TaskBuilder {
	b.description = description
	return b
}

// WithStatus sets the status
func (b *TaskBuilder) WithStatus(status domain.TaskStatus) *TaskBuilder {
	b.status = status
	return b
}

// WithPriority sets the priority
func (b *TaskBuilder) WithPriority(priority domain.TaskPriority) *TaskBuilder {
	b.priority = priority
	return b
}

// WithDueDate sets the due date
func (b *TaskBuilder) WithDueDate(due time.Time) *TaskBuilder {
	b.dueDate = &due
	return b
}

// Build creates the task in the database
func (b *TaskBuilder) Build(t *testing.T, db *gorm.DB) *domain.Task {
	t.Helper()

	task := &domain.Task{
		ID:          uuid.New(),
		OwnerID:     b.ownerID,
		Title:       b.title,
		Description: b.description,
		Status:      b.status,
		Priority:    b.priority,
		DueDate:     b.dueDate,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	if err := db.Create(task).Error; err != nil {
		t.Fatalf("failed to create task: %v", err)
	}

	return task
}

// DoRequest performs an HTTP request with an optional bearer token and JSON body
func DoRequest(t *testing.T, method, url, token string, body interface{}) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		reader = bytes.NewBuffer(raw)
	}

	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	return resp
}
