package service_test

import (
	"context"
	"errors"
	"testing"

	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	. "itemtracker/pkg/test"

	"itemtracker/internal/adapter/http/validation"
	"itemtracker/internal/core/domain"
	"itemtracker/internal/core/service"
	"itemtracker/internal/core/telemetry"
)

type ItemUseCaseTestSuite struct {
	suite.Suite
	UseCase *service.ItemService
	logs    *observer.ObservedLogs
	owner   domain.User
	other   domain.User
}

func (s *ItemUseCaseTestSuite) SetupTest() {
	store := InitTestStore(s.T())

	core, logs := observer.New(zapcore.InfoLevel)

	s.UseCase = service.NewItemService(store, validation.MustNew(), telemetry.NewNoOpProbe(), zap.New(core))
	s.logs = logs
	s.owner = CreateUser(s.T(), store, "owner@example.com")
	s.other = CreateUser(s.T(), store, "other@example.com")
}

func TestItemUseCaseTestSuite(t *testing.T) {
	RegisterTestingT(t)
	suite.Run(t, new(ItemUseCaseTestSuite))
}

func strPtr(s string) *string {
	return &s
}

func floatPtr(f float64) *float64 {
	return &f
}

func (s *ItemUseCaseTestSuite) create(ownerID int, value string) domain.Item {
	item, err := s.UseCase.Create(context.Background(), ownerID, domain.Item{Value: value})
	require.NoError(s.T(), err)

	return item
}

func (s *ItemUseCaseTestSuite) TestUseCase_Create_SetsOwnerAndTimestamps() {
	item, err := s.UseCase.Create(context.Background(), s.owner.ID, domain.Item{
		ID:     999,
		Value:  "buy milk",
		UserId: s.other.ID,
	})

	assert.NoError(s.T(), err)
	assert.NotEqual(s.T(), 999, item.ID)
	assert.Equal(s.T(), s.owner.ID, item.UserId)
	assert.False(s.T(), item.Completed)
	assert.False(s.T(), item.Created.IsZero())
	assert.True(s.T(), item.Created.Equal(item.Updated))
	assert.Equal(s.T(), 0, s.logs.FilterMessage("Item completed").Len())
}

func (s *ItemUseCaseTestSuite) TestUseCase_Create_CompletedLogs() {
	_, err := s.UseCase.Create(context.Background(), s.owner.ID, domain.Item{
		Value:     "done already",
		Name:      strPtr("chores"),
		Completed: true,
	})

	assert.NoError(s.T(), err)

	entries := s.logs.FilterMessage("Item completed").All()
	Expect(entries).To(HaveLen(1))
	Expect(entries[0].ContextMap()).To(HaveKeyWithValue("name", "chores"))
}

func (s *ItemUseCaseTestSuite) TestUseCase_Create_ValidationError() {
	_, err := s.UseCase.Create(context.Background(), s.owner.ID, domain.Item{Value: ""})

	var verr *domain.ValidationError
	Expect(errors.As(err, &verr)).To(BeTrue())
	Expect(verr.Fields[0].Field).To(Equal("value"))
}

func (s *ItemUseCaseTestSuite) TestUseCase_DeleteThenGet_NotFound() {
	ctx := context.Background()
	item := s.create(s.owner.ID, "temporary")

	require.NoError(s.T(), s.UseCase.Delete(ctx, s.owner.ID, item.ID))

	_, err := s.UseCase.Get(ctx, s.owner.ID, item.ID)
	Expect(err).To(MatchError(domain.ErrItemNotFound))

	err = s.UseCase.Delete(ctx, s.owner.ID, item.ID)
	Expect(err).To(MatchError(domain.ErrItemNotFound))
}

func (s *ItemUseCaseTestSuite) TestUseCase_Update_PartialFields() {
	ctx := context.Background()

	original, err := s.UseCase.Create(ctx, s.owner.ID, domain.Item{
		Value:    "write report",
		Name:     strPtr("work"),
		Notes:    strPtr("draft"),
		Duration: floatPtr(3),
	})
	require.NoError(s.T(), err)

	updated, err := s.UseCase.Update(ctx, s.owner.ID, original.ID, domain.ItemPatch{
		Completed: domain.Some(true),
		Notes:     domain.Some[*string](nil),
	})
	require.NoError(s.T(), err)

	Expect(updated.ID).To(Equal(original.ID))
	Expect(updated.Value).To(Equal("write report"))
	Expect(*updated.Name).To(Equal("work"))
	Expect(updated.Notes).To(BeNil())
	Expect(updated.Completed).To(BeTrue())
	Expect(*updated.Duration).To(Equal(3.0))
	Expect(updated.UserId).To(Equal(s.owner.ID))
	Expect(updated.Created.Equal(original.Created)).To(BeTrue())
	Expect(updated.Updated.After(original.Updated)).To(BeTrue())
}

func (s *ItemUseCaseTestSuite) TestUseCase_Update_StrictlyIncreasesUpdated() {
	ctx := context.Background()
	item := s.create(s.owner.ID, "tick")

	previous := item.Updated

	for i := 0; i < 3; i++ {
		updated, err := s.UseCase.Update(ctx, s.owner.ID, item.ID, domain.ItemPatch{Value: domain.Some("tock")})
		require.NoError(s.T(), err)

		Expect(updated.Updated.After(previous)).To(BeTrue())
		previous = updated.Updated
	}
}

func (s *ItemUseCaseTestSuite) TestUseCase_Update_EmptyPatchIsNoop() {
	ctx := context.Background()
	item := s.create(s.owner.ID, "steady")

	updated, err := s.UseCase.Update(ctx, s.owner.ID, item.ID, domain.ItemPatch{})

	require.NoError(s.T(), err)
	Expect(updated.Updated.Equal(item.Updated)).To(BeTrue())
}

func (s *ItemUseCaseTestSuite) TestUseCase_Update_InvalidPatch() {
	ctx := context.Background()
	item := s.create(s.owner.ID, "keep")

	_, err := s.UseCase.Update(ctx, s.owner.ID, item.ID, domain.ItemPatch{Value: domain.Some("")})

	var verr *domain.ValidationError
	Expect(errors.As(err, &verr)).To(BeTrue())

	unchanged, err := s.UseCase.Get(ctx, s.owner.ID, item.ID)
	require.NoError(s.T(), err)
	Expect(unchanged.Value).To(Equal("keep"))
}

func (s *ItemUseCaseTestSuite) TestUseCase_OwnershipIsolation() {
	ctx := context.Background()
	mine := s.create(s.owner.ID, "mine")
	s.create(s.other.ID, "theirs")

	_, err := s.UseCase.Get(ctx, s.other.ID, mine.ID)
	Expect(err).To(MatchError(domain.ErrItemNotFound))

	_, err = s.UseCase.Update(ctx, s.other.ID, mine.ID, domain.ItemPatch{Value: domain.Some("stolen")})
	Expect(err).To(MatchError(domain.ErrItemNotFound))

	err = s.UseCase.Delete(ctx, s.other.ID, mine.ID)
	Expect(err).To(MatchError(domain.ErrItemNotFound))

	page, err := s.UseCase.ListForOwner(ctx, s.other.ID, domain.ListQuery{Limit: 10})
	require.NoError(s.T(), err)
	Expect(page.Total).To(Equal(1))
	Expect(page.Items).To(HaveLen(1))
	Expect(page.Items[0].Value).To(Equal("theirs"))

	still, err := s.UseCase.Get(ctx, s.owner.ID, mine.ID)
	require.NoError(s.T(), err)
	Expect(still.Value).To(Equal("mine"))
}

func (s *ItemUseCaseTestSuite) TestUseCase_ListPagination() {
	ctx := context.Background()

	for i := 0; i < 7; i++ {
		s.create(s.owner.ID, "item")
	}

	s.create(s.other.ID, "foreign")

	for _, offset := range []int{0, 3, 6, 10} {
		page, err := s.UseCase.ListForOwner(ctx, s.owner.ID, domain.ListQuery{Offset: offset, Limit: 3})
		require.NoError(s.T(), err)

		Expect(len(page.Items)).To(BeNumerically("<=", 3))
		Expect(page.Total).To(Equal(7))
	}

	all, err := s.UseCase.ListAll(ctx, domain.ListQuery{Offset: 0, Limit: 100, OwnerID: &s.owner.ID})
	require.NoError(s.T(), err)
	Expect(all.Total).To(Equal(8))
}

func (s *ItemUseCaseTestSuite) TestUseCase_ListRejectsBadWindow() {
	_, err := s.UseCase.ListAll(context.Background(), domain.ListQuery{Offset: -1, Limit: 0})

	var verr *domain.ValidationError
	Expect(errors.As(err, &verr)).To(BeTrue())
	Expect(verr.Fields).To(HaveLen(2))
}
