package service_test

import (
	"context"
	"testing"

	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	. "itemtracker/pkg/test"

	"itemtracker/internal/core/domain"
	"itemtracker/internal/core/service"
)

type UserUseCaseTestSuite struct {
	suite.Suite
	UseCase *service.UserService
}

func (s *UserUseCaseTestSuite) SetupTest() {
	s.UseCase = service.NewUserService(InitTestStore(s.T()))
}

func TestUserUseCaseTestSuite(t *testing.T) {
	RegisterTestingT(t)
	suite.Run(t, new(UserUseCaseTestSuite))
}

func (s *UserUseCaseTestSuite) TestUseCase_Create_DefaultsRole() {
	user, err := s.UseCase.Create(context.Background(), domain.User{
		Name:              "Test User",
		Email:             " Test@Example.com ",
		EncryptedPassword: "hash",
	})

	assert.NoError(s.T(), err)
	assert.NotZero(s.T(), user.ID)
	assert.NotEmpty(s.T(), user.UUID)
	assert.Equal(s.T(), "test@example.com", user.Email)
	assert.Equal(s.T(), domain.Profile, user.Role)
}

func (s *UserUseCaseTestSuite) TestUseCase_GetUserByID() {
	ctx := context.Background()

	created, err := s.UseCase.Create(ctx, domain.User{Email: "id@example.com", EncryptedPassword: "hash"})
	assert.NoError(s.T(), err)

	found, err := s.UseCase.GetUserByID(ctx, created.ID)

	Expect(err).To(BeNil())
	Expect(found.Email).To(Equal("id@example.com"))
}

func (s *UserUseCaseTestSuite) TestUseCase_GetUserByEmail_NotFound() {
	_, err := s.UseCase.GetUserByEmail(context.Background(), "missing@example.com")

	Expect(err).To(MatchError(domain.ErrUserNotFound))
}
