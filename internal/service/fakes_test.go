package service

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/sakif/commentator/internal/apperror"
	"github.com/sakif/commentator/internal/auth"
	"github.com/sakif/commentator/internal/model"
)

// In-memory fakes for the repository interfaces. Hand-written (not a mock
// framework) so you can read exactly what the store is pretending to do —
// including the two behaviours that matter here: uniqueness conflicts on
// insert and the atomic account→feedback cascade on delete.

type fakeFeedbackRepo struct {
	items  map[int64]*model.Feedback
	nextID int64
	// set to simulate an unexpected store failure
	failErr error
}

func newFakeFeedbackRepo() *fakeFeedbackRepo {
	return &fakeFeedbackRepo{items: make(map[int64]*model.Feedback), nextID: 1}
}

func (f *fakeFeedbackRepo) Create(ctx context.Context, fb *model.Feedback) error {
	if f.failErr != nil {
		return f.failErr
	}
	fb.ID = f.nextID
	f.nextID++ // monotonic, never reused, like AUTOINCREMENT
	copied := *fb
	f.items[fb.ID] = &copied
	return nil
}

func (f *fakeFeedbackRepo) GetByID(ctx context.Context, id int64) (*model.Feedback, error) {
	if f.failErr != nil {
		return nil, f.failErr
	}
	fb, ok := f.items[id]
	if !ok {
		return nil, apperror.NotFound("feedback", id)
	}
	copied := *fb
	return &copied, nil
}

func (f *fakeFeedbackRepo) ListByOwner(ctx context.Context, owner string) ([]model.Feedback, error) {
	if f.failErr != nil {
		return nil, f.failErr
	}
	list := []model.Feedback{}
	for _, fb := range f.items {
		if fb.OwnerUsername == owner {
			list = append(list, *fb)
		}
	}
	return list, nil
}

func (f *fakeFeedbackRepo) Update(ctx context.Context, fb *model.Feedback) error {
	if f.failErr != nil {
		return f.failErr
	}
	if _, ok := f.items[fb.ID]; !ok {
		return apperror.NotFound("feedback", fb.ID)
	}
	copied := *fb
	f.items[fb.ID] = &copied
	return nil
}

func (f *fakeFeedbackRepo) Delete(ctx context.Context, id int64) error {
	if f.failErr != nil {
		return f.failErr
	}
	if _, ok := f.items[id]; !ok {
		return apperror.NotFound("feedback", id)
	}
	delete(f.items, id)
	return nil
}

type fakeAccountRepo struct {
	accounts map[string]*model.Account
	// the fake cascade deletes owned rows from here, like the real
	// transaction does
	feedback *fakeFeedbackRepo
	failErr  error
}

func newFakeAccountRepo(feedback *fakeFeedbackRepo) *fakeAccountRepo {
	return &fakeAccountRepo{
		accounts: make(map[string]*model.Account),
		feedback: feedback,
	}
}

func (f *fakeAccountRepo) Create(ctx context.Context, account *model.Account) error {
	if f.failErr != nil {
		return f.failErr
	}
	if _, ok := f.accounts[account.Username]; ok {
		return apperror.Conflict("username", "Username already taken. Please choose another.")
	}
	for _, a := range f.accounts {
		if a.Email == account.Email {
			return apperror.Conflict("email", "Email already registered. Please use another.")
		}
	}
	copied := *account
	f.accounts[account.Username] = &copied
	return nil
}

func (f *fakeAccountRepo) GetByUsername(ctx context.Context, username string) (*model.Account, error) {
	if f.failErr != nil {
		return nil, f.failErr
	}
	a, ok := f.accounts[username]
	if !ok {
		return nil, apperror.NotFound("account", username)
	}
	copied := *a
	return &copied, nil
}

func (f *fakeAccountRepo) Delete(ctx context.Context, username string) error {
	if f.failErr != nil {
		return f.failErr
	}
	if _, ok := f.accounts[username]; !ok {
		return apperror.NotFound("account", username)
	}
	delete(f.accounts, username)
	for id, fb := range f.feedback.items {
		if fb.OwnerUsername == username {
			delete(f.feedback.items, id)
		}
	}
	return nil
}

// testLogger discards everything below Error so test output stays readable.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// newTestServices wires both services over shared fakes.
func newTestServices(t *testing.T) (*AccountService, *FeedbackService, *fakeAccountRepo, *fakeFeedbackRepo) {
	t.Helper()
	feedbackRepo := newFakeFeedbackRepo()
	accountRepo := newFakeAccountRepo(feedbackRepo)
	// Cost 4 is the bcrypt minimum — keeps the hashing in Register fast.
	passwords := auth.NewPasswordServiceWithCost(4)
	logger := testLogger()
	return NewAccountService(accountRepo, feedbackRepo, passwords, logger),
		NewFeedbackService(feedbackRepo, logger),
		accountRepo, feedbackRepo
}

// registerTestUser registers the standard fixture user and fails the test on
// any error.
func registerTestUser(t *testing.T, svc *AccountService, username, email string) *model.Account {
	t.Helper()
	account, err := svc.Register(context.Background(), RegisterInput{
		Username:  username,
		Password:  "password123",
		Email:     email,
		FirstName: "John",
		LastName:  "Doe",
	})
	if err != nil {
		t.Fatalf("Register(%s) error = %v", username, err)
	}
	return account
}
