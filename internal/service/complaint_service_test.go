package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"complaintdesk/internal/models"
	"complaintdesk/internal/repository"
)

type fakeComplaintStore struct {
	byID map[string]models.Complaint
}

func newFakeComplaintStore() *fakeComplaintStore {
	return &fakeComplaintStore{byID: make(map[string]models.Complaint)}
}

func (f *fakeComplaintStore) Create(_ context.Context, complaint models.Complaint) error {
	f.byID[complaint.ID] = complaint
	return nil
}

func (f *fakeComplaintStore) GetByID(_ context.Context, id string) (models.Complaint, error) {
	complaint, ok := f.byID[id]
	if !ok {
		return models.Complaint{}, repository.ErrComplaintNotFound
	}
	return complaint, nil
}

func (f *fakeComplaintStore) List(_ context.Context, filters repository.ComplaintFilters) ([]models.Complaint, error) {
	var out []models.Complaint
	for _, c := range f.byID {
		if filters.Status != "" && c.Status != filters.Status {
			continue
		}
		if filters.Priority != "" && c.Priority != filters.Priority {
			continue
		}
		if filters.UserID != "" && c.UserID != filters.UserID {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeComplaintStore) UpdateStatus(_ context.Context, id string, status models.ComplaintStatus) error {
	complaint, ok := f.byID[id]
	if !ok {
		return repository.ErrComplaintNotFound
	}
	complaint.Status = status
	f.byID[id] = complaint
	return nil
}

func (f *fakeComplaintStore) Delete(_ context.Context, id string) error {
	if _, ok := f.byID[id]; !ok {
		return repository.ErrComplaintNotFound
	}
	delete(f.byID, id)
	return nil
}

type fakeNotifier struct {
	created []models.Complaint
	updated []models.Complaint
}

func (f *fakeNotifier) ComplaintCreated(_ context.Context, c models.Complaint) {
	f.created = append(f.created, c)
}

func (f *fakeNotifier) StatusUpdated(_ context.Context, c models.Complaint) {
	f.updated = append(f.updated, c)
}

func validInput() CreateComplaintInput {
	return CreateComplaintInput{
		Title:       "Broken widget",
		Description: "The widget arrived in pieces.",
		Category:    "Product",
		Priority:    "High",
	}
}

func TestCreateComplaint_Defaults(t *testing.T) {
	store := newFakeComplaintStore()
	notifier := &fakeNotifier{}
	svc := NewComplaintService(store, notifier, zerolog.Nop())

	complaint, err := svc.Create(context.Background(), "user-1", validInput())
	require.NoError(t, err)

	assert.NotEmpty(t, complaint.ID)
	assert.Equal(t, "user-1", complaint.UserID)
	assert.Equal(t, models.ComplaintStatusPending, complaint.Status)
	assert.False(t, complaint.SubmittedAt.IsZero())

	require.Len(t, notifier.created, 1)
	assert.Equal(t, complaint.ID, notifier.created[0].ID)
}

func TestCreateComplaint_Validation(t *testing.T) {
	svc := NewComplaintService(newFakeComplaintStore(), &fakeNotifier{}, zerolog.Nop())

	cases := []struct {
		name  string
		input CreateComplaintInput
		field string
	}{
		{"short title", CreateComplaintInput{Title: "ab", Description: "long enough text", Category: "Product", Priority: "Low"}, "title"},
		{"short description", CreateComplaintInput{Title: "A title", Description: "short", Category: "Product", Priority: "Low"}, "description"},
		{"bad category", CreateComplaintInput{Title: "A title", Description: "long enough text", Category: "Other", Priority: "Low"}, "category"},
		{"bad priority", CreateComplaintInput{Title: "A title", Description: "long enough text", Category: "Product", Priority: "Urgent"}, "priority"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), "user-1", tc.input)
			var validationErr *ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Contains(t, validationErr.FieldErrors, tc.field)
		})
	}
}

func TestUpdateStatus_Notifies(t *testing.T) {
	store := newFakeComplaintStore()
	notifier := &fakeNotifier{}
	svc := NewComplaintService(store, notifier, zerolog.Nop())

	complaint, err := svc.Create(context.Background(), "user-1", validInput())
	require.NoError(t, err)

	updated, err := svc.UpdateStatus(context.Background(), complaint.ID, models.ComplaintStatusResolved)
	require.NoError(t, err)
	assert.Equal(t, models.ComplaintStatusResolved, updated.Status)

	require.Len(t, notifier.updated, 1)
	assert.Equal(t, models.ComplaintStatusResolved, notifier.updated[0].Status)
}

func TestUpdateStatus_InvalidStatus(t *testing.T) {
	svc := NewComplaintService(newFakeComplaintStore(), &fakeNotifier{}, zerolog.Nop())

	_, err := svc.UpdateStatus(context.Background(), "c-1", "Closed")
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.FieldErrors, "status")
}

func TestUpdateStatus_NotFound(t *testing.T) {
	svc := NewComplaintService(newFakeComplaintStore(), &fakeNotifier{}, zerolog.Nop())

	_, err := svc.UpdateStatus(context.Background(), "missing", models.ComplaintStatusResolved)
	assert.ErrorIs(t, err, repository.ErrComplaintNotFound)
}

func TestDeleteComplaint(t *testing.T) {
	store := newFakeComplaintStore()
	svc := NewComplaintService(store, &fakeNotifier{}, zerolog.Nop())

	complaint, err := svc.Create(context.Background(), "user-1", validInput())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), complaint.ID))
	_, err = svc.Get(context.Background(), complaint.ID)
	assert.ErrorIs(t, err, repository.ErrComplaintNotFound)
}
