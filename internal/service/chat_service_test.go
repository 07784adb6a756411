package service

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/zigger-app/gig-backend/internal/models"
	"github.com/zigger-app/gig-backend/internal/pkg/apperror"
)

type mockChatRepo struct {
	mock.Mock
}

func (m *mockChatRepo) Create(ctx context.Context, msg *models.ChatMessage) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *mockChatRepo) ListByGig(ctx context.Context, gigID uuid.UUID) ([]models.ChatMessage, error) {
	args := m.Called(ctx, gigID)
	return args.Get(0).([]models.ChatMessage), args.Error(1)
}

type recordingPusher struct {
	userID  uuid.UUID
	payload interface{}
	calls   int
}

func (p *recordingPusher) PushToUser(userID uuid.UUID, payload interface{}) {
	p.userID = userID
	p.payload = payload
	p.calls++
}

func TestChatService_SendMessage_PushesToCounterparty(t *testing.T) {
	repo := new(mockChatRepo)
	gigs := new(mockGigRepo)
	pusher := &recordingPusher{}
	svc := NewChatService(repo, gigs, pusher)
	ctx := context.Background()

	employerID := uuid.New()
	workerID := uuid.New()
	gig := &models.Gig{ID: uuid.New(), CreatedBy: employerID, AssignedTo: &workerID, Status: models.GigStatusAssigned}

	gigs.On("GetByID", ctx, gig.ID).Return(gig, nil)
	repo.On("Create", ctx, mock.AnythingOfType("*models.ChatMessage")).Return(nil)

	msg, err := svc.SendMessage(ctx, employerID, gig.ID, "  Когда сможете приступить?  ")
	assert.NoError(t, err)
	assert.Equal(t, "Когда сможете приступить?", msg.Content)
	assert.Equal(t, workerID, pusher.userID)
	assert.Equal(t, 1, pusher.calls)
	repo.AssertExpectations(t)
}

func TestChatService_SendMessage_WorkerToEmployer(t *testing.T) {
	repo := new(mockChatRepo)
	gigs := new(mockGigRepo)
	pusher := &recordingPusher{}
	svc := NewChatService(repo, gigs, pusher)
	ctx := context.Background()

	employerID := uuid.New()
	workerID := uuid.New()
	gig := &models.Gig{ID: uuid.New(), CreatedBy: employerID, AssignedTo: &workerID, Status: models.GigStatusInProgress}

	gigs.On("GetByID", ctx, gig.ID).Return(gig, nil)
	repo.On("Create", ctx, mock.AnythingOfType("*models.ChatMessage")).Return(nil)

	_, err := svc.SendMessage(ctx, workerID, gig.ID, "Уже в пути")
	assert.NoError(t, err)
	assert.Equal(t, employerID, pusher.userID)
}

func TestChatService_SendMessage_EmptyMessage(t *testing.T) {
	repo := new(mockChatRepo)
	gigs := new(mockGigRepo)
	svc := NewChatService(repo, gigs, nil)
	ctx := context.Background()

	_, err := svc.SendMessage(ctx, uuid.New(), uuid.New(), "   ")
	assert.Error(t, err)
	gigs.AssertNotCalled(t, "GetByID")
	repo.AssertNotCalled(t, "Create")
}

func TestChatService_SendMessage_TooLong(t *testing.T) {
	repo := new(mockChatRepo)
	gigs := new(mockGigRepo)
	svc := NewChatService(repo, gigs, nil)
	ctx := context.Background()

	long := strings.Repeat("а", 5001)
	_, err := svc.SendMessage(ctx, uuid.New(), uuid.New(), long)
	assert.Error(t, err)
	repo.AssertNotCalled(t, "Create")
}

func TestChatService_SendMessage_NotParticipant(t *testing.T) {
	repo := new(mockChatRepo)
	gigs := new(mockGigRepo)
	svc := NewChatService(repo, gigs, nil)
	ctx := context.Background()

	gig := &models.Gig{ID: uuid.New(), CreatedBy: uuid.New()}
	gigs.On("GetByID", ctx, gig.ID).Return(gig, nil)

	_, err := svc.SendMessage(ctx, uuid.New(), gig.ID, "Привет")
	assert.ErrorIs(t, err, apperror.ErrNotGigParticipant)
	repo.AssertNotCalled(t, "Create")
}

func TestChatService_SendMessage_NoWorkerNoPush(t *testing.T) {
	repo := new(mockChatRepo)
	gigs := new(mockGigRepo)
	pusher := &recordingPusher{}
	svc := NewChatService(repo, gigs, pusher)
	ctx := context.Background()

	employerID := uuid.New()
	gig := &models.Gig{ID: uuid.New(), CreatedBy: employerID, Status: models.GigStatusOpen}

	gigs.On("GetByID", ctx, gig.ID).Return(gig, nil)
	repo.On("Create", ctx, mock.AnythingOfType("*models.ChatMessage")).Return(nil)

	_, err := svc.SendMessage(ctx, employerID, gig.ID, "Есть вопросы по заданию?")
	assert.NoError(t, err)
	assert.Equal(t, 0, pusher.calls)
}

func TestChatService_ListMessages_Participant(t *testing.T) {
	repo := new(mockChatRepo)
	gigs := new(mockGigRepo)
	svc := NewChatService(repo, gigs, nil)
	ctx := context.Background()

	employerID := uuid.New()
	gig := &models.Gig{ID: uuid.New(), CreatedBy: employerID}

	gigs.On("GetByID", ctx, gig.ID).Return(gig, nil)
	repo.On("ListByGig", ctx, gig.ID).Return([]models.ChatMessage{{ID: uuid.New()}}, nil)

	msgs, err := svc.ListMessages(ctx, employerID, gig.ID)
	assert.NoError(t, err)
	assert.Len(t, msgs, 1)
}

func TestChatService_ListMessages_Outsider(t *testing.T) {
	repo := new(mockChatRepo)
	gigs := new(mockGigRepo)
	svc := NewChatService(repo, gigs, nil)
	ctx := context.Background()

	gig := &models.Gig{ID: uuid.New(), CreatedBy: uuid.New()}
	gigs.On("GetByID", ctx, gig.ID).Return(gig, nil)

	_, err := svc.ListMessages(ctx, uuid.New(), gig.ID)
	assert.ErrorIs(t, err, apperror.ErrNotGigParticipant)
	repo.AssertNotCalled(t, "ListByGig")
}
