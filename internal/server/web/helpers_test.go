package web

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/mkravets/paperjobs/internal/common"
	"github.com/mkravets/paperjobs/internal/dbx"
	"github.com/mkravets/paperjobs/internal/logging"
	"github.com/mkravets/paperjobs/internal/server/auth"
	sc "github.com/mkravets/paperjobs/internal/server/config"
	"github.com/mkravets/paperjobs/internal/server/models"
	jobsrepo "github.com/mkravets/paperjobs/internal/server/repositories/jobs"
	usersrepo "github.com/mkravets/paperjobs/internal/server/repositories/users"
	"github.com/mkravets/paperjobs/internal/server/security"
	"github.com/mkravets/paperjobs/internal/server/services"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type stubUsersRepo struct {
	users   map[string]*models.User
	created []*models.User
}

func (f *stubUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if _, ok := f.users[u.Email]; ok {
		return nil, common.ErrorDuplicate
	}
	u.ID = "user-" + u.Email
	f.users[u.Email] = u
	f.created = append(f.created, u)
	return u, nil
}

func (f *stubUsersRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	u, ok := f.users[email]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return u, nil
}

type stubJobsRepo struct {
	jobs []*models.Job
}

func (f *stubJobsRepo) Create(ctx context.Context, job *models.Job) (*models.Job, error) {
	job.ID = "job-1"
	f.jobs = append(f.jobs, job)
	return job, nil
}

func (f *stubJobsRepo) List(ctx context.Context, limit, offset int) ([]*models.Job, error) {
	return f.jobs, nil
}

func (f *stubJobsRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(f.jobs)), nil
}

func (f *stubJobsRepo) GetByID(ctx context.Context, id string) (*models.Job, error) {
	for _, j := range f.jobs {
		if j.ID == id {
			return j, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *stubJobsRepo) Delete(ctx context.Context, id string) error {
	for i, j := range f.jobs {
		if j.ID == id {
			f.jobs = append(f.jobs[:i], f.jobs[i+1:]...)
			return nil
		}
	}
	return common.ErrorNotFound
}

type stubRepoManager struct {
	users *stubUsersRepo
	jobs  *stubJobsRepo
}

func (m *stubRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *stubRepoManager) Users(db dbx.DBTX) usersrepo.Repository      { return m.users }
func (m *stubRepoManager) Jobs(db dbx.DBTX) jobsrepo.Repository        { return m.jobs }

type testEnv struct {
	router   http.Handler
	config   *sc.Config
	usersRep *stubUsersRepo
	jobsRep  *stubJobsRepo
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, _, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	cfg := &sc.Config{}
	cfg.LoadDefaults()
	cfg.SecretKey = "test-secret"

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))

	usersRep := &stubUsersRepo{users: map[string]*models.User{}}
	jobsRep := &stubJobsRepo{}
	rm := &stubRepoManager{users: usersRep, jobs: jobsRep}

	renderer, err := NewRenderer()
	require.NoError(t, err)

	h := NewHandlers(
		services.NewUserService(db, rm, logger),
		services.NewJobService(db, rm, cfg, logger),
		security.NewCSRFGuard(cfg.Production),
		cfg, renderer, logger, db,
	)

	return &testEnv{
		router:   NewRouter(h, NewRequestGate(cfg.NonceCSPEnabled, logger)),
		config:   cfg,
		usersRep: usersRep,
		jobsRep:  jobsRep,
	}
}

func (e *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) addUser(t *testing.T, email, password string) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	u := &models.User{ID: "user-" + email, Email: email, Name: email, PasswordHash: string(hash)}
	e.usersRep.users[email] = u
	return u
}

func (e *testEnv) sessionCookie(t *testing.T, userID string) *http.Cookie {
	t.Helper()
	token, err := auth.GenerateToken(userID, []byte(e.config.SecretKey), e.config.SessionValidityDuration)
	require.NoError(t, err)
	return &http.Cookie{Name: common.SessionCookieName, Value: token}
}

func csrfPair(value string) (*http.Cookie, string) {
	return &http.Cookie{Name: common.CSRFCookieName, Value: value}, value
}
