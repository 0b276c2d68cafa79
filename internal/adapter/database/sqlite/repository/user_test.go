package repository_test

import (
	"context"
	"testing"
	"time"

	. "usersphere/pkg/test"

	"usersphere/internal/adapter/database/sqlite/repository"
	"usersphere/internal/core/domain"
	"usersphere/internal/core/port"
	"usersphere/internal/core/telemetry"
	"usersphere/pkg/test/factory"

	"github.com/google/uuid"
	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type UserRepositoryTestSuite struct {
	suite.Suite
	repo port.UserRepository
}

func (s *UserRepositoryTestSuite) SetupTest() {
	db := InitTestDB()
	probe := telemetry.NewNoOpProbe() // Use NoOpProbe for tests

	s.repo = repository.NewUserRepository(db, probe)
}

func TestUserRepositoryTestSuite(t *testing.T) {
	RegisterTestingT(t)
	suite.Run(t, new(UserRepositoryTestSuite))
}

func buildUser(name, email string) domain.User {
	now := time.Now()

	return domain.User{
		UUID:              uuid.New(),
		Name:              name,
		Email:             email,
		EncryptedPassword: "digest",
		IsActive:          true,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

func (s *UserRepositoryTestSuite) TestRepository_CreateUser_Success() {
	user, err := s.repo.Create(context.Background(), buildUser("Test User", "test@example.com"))

	assert.NoError(s.T(), err)
	assert.NotEmpty(s.T(), user.ID)
	assert.NotEmpty(s.T(), user.UUID)
	assert.Equal(s.T(), "Test User", user.Name)
	assert.Equal(s.T(), "test@example.com", user.Email)
	assert.True(s.T(), user.IsActive)
	assert.Nil(s.T(), user.DeletedAt)
}

func (s *UserRepositoryTestSuite) TestRepository_CreateUser_WithAge() {
	input := buildUser("Aged User", "aged@example.com")
	age := 42
	input.Age = &age

	user, err := s.repo.Create(context.Background(), input)

	Expect(err).To(BeNil())
	Expect(user.Age).NotTo(BeNil())
	Expect(*user.Age).To(Equal(42))
}

func (s *UserRepositoryTestSuite) TestRepository_CreateUser_FromFactory() {
	input := factory.NewUser[domain.User](map[string]any{
		"UUID":     uuid.New(),
		"Email":    "factory@example.com",
		"IsActive": true,
	})

	user, err := s.repo.Create(context.Background(), input)

	Expect(err).To(BeNil())
	Expect(user.Email).To(Equal("factory@example.com"))
	Expect(user.EncryptedPassword).NotTo(BeEmpty())
}

func (s *UserRepositoryTestSuite) TestRepository_CreateUser_DuplicateEmail() {
	ctx := context.Background()

	_, err := s.repo.Create(ctx, buildUser("First", "dup@example.com"))
	Expect(err).To(BeNil())

	_, err = s.repo.Create(ctx, buildUser("Second", "dup@example.com"))

	Expect(err).To(MatchError(domain.ErrEmailTaken))
}

func (s *UserRepositoryTestSuite) TestRepository_GetByUUID_NotFound() {
	_, err := s.repo.GetByUUID(context.Background(), uuid.New().String())

	Expect(err).To(MatchError(domain.ErrUserNotFound))
}

func (s *UserRepositoryTestSuite) TestRepository_GetByEmail_Success() {
	ctx := context.Background()

	created, _ := s.repo.Create(ctx, buildUser("Mail User", "mail@example.com"))

	found, err := s.repo.GetByEmail(ctx, "mail@example.com")

	assert.NoError(s.T(), err)
	assert.Equal(s.T(), created.UUID, found.UUID)
	assert.Equal(s.T(), created.ID, found.ID)
}

func (s *UserRepositoryTestSuite) TestRepository_GetAll_ExcludesDeleted() {
	ctx := context.Background()

	first, _ := s.repo.Create(ctx, buildUser("First", "first@example.com"))
	second, _ := s.repo.Create(ctx, buildUser("Second", "second@example.com"))

	Expect(s.repo.SoftDeleteByUUID(ctx, second.UUID.String())).To(Succeed())

	users, err := s.repo.GetAll(ctx)

	Expect(err).To(BeNil())
	Expect(users).To(HaveLen(1))
	Expect(users[0].UUID).To(Equal(first.UUID))
}

func (s *UserRepositoryTestSuite) TestRepository_GetAll_OrderedByID() {
	ctx := context.Background()

	s.repo.Create(ctx, buildUser("One", "one@example.com"))
	s.repo.Create(ctx, buildUser("Two", "two@example.com"))
	s.repo.Create(ctx, buildUser("Three", "three@example.com"))

	users, err := s.repo.GetAll(ctx)

	Expect(err).To(BeNil())
	Expect(users).To(HaveLen(3))
	Expect(users[0].ID).To(BeNumerically("<", users[1].ID))
	Expect(users[1].ID).To(BeNumerically("<", users[2].ID))
}

func (s *UserRepositoryTestSuite) TestRepository_Search_CaseInsensitive() {
	ctx := context.Background()

	s.repo.Create(ctx, buildUser("Alice Smith", "alice@example.com"))
	s.repo.Create(ctx, buildUser("Bob Jones", "bob@other.org"))

	byName, err := s.repo.Search(ctx, "ALICE")
	Expect(err).To(BeNil())
	Expect(byName).To(HaveLen(1))
	Expect(byName[0].Name).To(Equal("Alice Smith"))

	byEmail, err := s.repo.Search(ctx, "other.org")
	Expect(err).To(BeNil())
	Expect(byEmail).To(HaveLen(1))
	Expect(byEmail[0].Name).To(Equal("Bob Jones"))
}

func (s *UserRepositoryTestSuite) TestRepository_Search_ExcludesDeleted() {
	ctx := context.Background()

	user, _ := s.repo.Create(ctx, buildUser("Ghost", "ghost@example.com"))
	s.repo.SoftDeleteByUUID(ctx, user.UUID.String())

	users, err := s.repo.Search(ctx, "ghost")

	Expect(err).To(BeNil())
	Expect(users).To(BeEmpty())
}

func (s *UserRepositoryTestSuite) TestRepository_Search_NoMatches() {
	users, err := s.repo.Search(context.Background(), "nobody")

	Expect(err).To(BeNil())
	Expect(users).To(BeEmpty())
}

func (s *UserRepositoryTestSuite) TestRepository_UpdateByUUID_Partial() {
	ctx := context.Background()

	created, _ := s.repo.Create(ctx, buildUser("Before", "before@example.com"))

	newName := "After"
	updated, err := s.repo.UpdateByUUID(ctx, created.UUID.String(), domain.UserUpdate{Name: &newName})

	assert.NoError(s.T(), err)
	assert.Equal(s.T(), "After", updated.Name)
	assert.Equal(s.T(), "before@example.com", updated.Email)
	assert.False(s.T(), updated.UpdatedAt.Before(created.UpdatedAt))
}

func (s *UserRepositoryTestSuite) TestRepository_UpdateByUUID_Age() {
	ctx := context.Background()

	created, _ := s.repo.Create(ctx, buildUser("Ager", "ager@example.com"))

	age := 30
	updated, err := s.repo.UpdateByUUID(ctx, created.UUID.String(), domain.UserUpdate{Age: &age})

	Expect(err).To(BeNil())
	Expect(updated.Age).NotTo(BeNil())
	Expect(*updated.Age).To(Equal(30))
}

func (s *UserRepositoryTestSuite) TestRepository_UpdateByUUID_EmailConflict() {
	ctx := context.Background()

	s.repo.Create(ctx, buildUser("Holder", "holder@example.com"))
	other, _ := s.repo.Create(ctx, buildUser("Other", "other@example.com"))

	taken := "holder@example.com"
	_, err := s.repo.UpdateByUUID(ctx, other.UUID.String(), domain.UserUpdate{Email: &taken})

	Expect(err).To(MatchError(domain.ErrEmailTaken))
}

func (s *UserRepositoryTestSuite) TestRepository_UpdateByUUID_NotFound() {
	name := "Nobody"
	_, err := s.repo.UpdateByUUID(context.Background(), uuid.New().String(), domain.UserUpdate{Name: &name})

	Expect(err).To(MatchError(domain.ErrUserNotFound))
}

func (s *UserRepositoryTestSuite) TestRepository_SoftDelete_HidesUser() {
	ctx := context.Background()

	user, _ := s.repo.Create(ctx, buildUser("Doomed", "doomed@example.com"))

	err := s.repo.SoftDeleteByUUID(ctx, user.UUID.String())
	assert.NoError(s.T(), err)

	_, err = s.repo.GetByUUID(ctx, user.UUID.String())
	assert.ErrorIs(s.T(), err, domain.ErrUserNotFound)

	_, err = s.repo.GetByEmail(ctx, "doomed@example.com")
	assert.ErrorIs(s.T(), err, domain.ErrUserNotFound)
}

func (s *UserRepositoryTestSuite) TestRepository_SoftDelete_Twice() {
	ctx := context.Background()

	user, _ := s.repo.Create(ctx, buildUser("Once", "once@example.com"))

	Expect(s.repo.SoftDeleteByUUID(ctx, user.UUID.String())).To(Succeed())

	err := s.repo.SoftDeleteByUUID(ctx, user.UUID.String())
	Expect(err).To(MatchError(domain.ErrUserNotFound))
}

func (s *UserRepositoryTestSuite) TestRepository_SoftDelete_NotFound() {
	err := s.repo.SoftDeleteByUUID(context.Background(), uuid.New().String())

	Expect(err).To(MatchError(domain.ErrUserNotFound))
}

func (s *UserRepositoryTestSuite) TestRepository_EmailReusableAfterDelete() {
	ctx := context.Background()

	old, _ := s.repo.Create(ctx, buildUser("Old", "reuse@example.com"))
	Expect(s.repo.SoftDeleteByUUID(ctx, old.UUID.String())).To(Succeed())

	fresh, err := s.repo.Create(ctx, buildUser("Fresh", "reuse@example.com"))

	Expect(err).To(BeNil())
	Expect(fresh.UUID).NotTo(Equal(old.UUID))
}

func (s *UserRepositoryTestSuite) TestRepository_Restore_Success() {
	ctx := context.Background()

	user, _ := s.repo.Create(ctx, buildUser("Phoenix", "phoenix@example.com"))
	Expect(s.repo.SoftDeleteByUUID(ctx, user.UUID.String())).To(Succeed())

	restored, err := s.repo.RestoreByUUID(ctx, user.UUID.String())

	assert.NoError(s.T(), err)
	assert.True(s.T(), restored.IsActive)
	assert.Nil(s.T(), restored.DeletedAt)

	found, err := s.repo.GetByUUID(ctx, user.UUID.String())
	assert.NoError(s.T(), err)
	assert.Equal(s.T(), user.UUID, found.UUID)
}

func (s *UserRepositoryTestSuite) TestRepository_Restore_ActiveUser() {
	ctx := context.Background()

	user, _ := s.repo.Create(ctx, buildUser("Alive", "alive@example.com"))

	_, err := s.repo.RestoreByUUID(ctx, user.UUID.String())

	Expect(err).To(MatchError(domain.ErrUserNotDeleted))
}

func (s *UserRepositoryTestSuite) TestRepository_Restore_NotFound() {
	_, err := s.repo.RestoreByUUID(context.Background(), uuid.New().String())

	Expect(err).To(MatchError(domain.ErrUserNotFound))
}

func (s *UserRepositoryTestSuite) TestRepository_Restore_EmailReclaimed() {
	ctx := context.Background()

	old, _ := s.repo.Create(ctx, buildUser("Old", "claimed@example.com"))
	Expect(s.repo.SoftDeleteByUUID(ctx, old.UUID.String())).To(Succeed())

	_, err := s.repo.Create(ctx, buildUser("Fresh", "claimed@example.com"))
	Expect(err).To(BeNil())

	_, err = s.repo.RestoreByUUID(ctx, old.UUID.String())

	Expect(err).To(MatchError(domain.ErrEmailTaken))
}

func (s *UserRepositoryTestSuite) TestRepository_HardDelete_RemovesRow() {
	ctx := context.Background()

	user, _ := s.repo.Create(ctx, buildUser("Erased", "erased@example.com"))

	Expect(s.repo.HardDeleteByUUID(ctx, user.UUID.String())).To(Succeed())

	_, err := s.repo.GetByUUID(ctx, user.UUID.String())
	Expect(err).To(MatchError(domain.ErrUserNotFound))

	// A hard-deleted row cannot be restored.
	_, err = s.repo.RestoreByUUID(ctx, user.UUID.String())
	Expect(err).To(MatchError(domain.ErrUserNotFound))
}

func (s *UserRepositoryTestSuite) TestRepository_HardDelete_SoftDeletedRow() {
	ctx := context.Background()

	user, _ := s.repo.Create(ctx, buildUser("Buried", "buried@example.com"))
	Expect(s.repo.SoftDeleteByUUID(ctx, user.UUID.String())).To(Succeed())

	err := s.repo.HardDeleteByUUID(ctx, user.UUID.String())

	Expect(err).To(BeNil())
}

func (s *UserRepositoryTestSuite) TestRepository_CountActive() {
	ctx := context.Background()

	count, err := s.repo.CountActive(ctx)
	Expect(err).To(BeNil())
	Expect(count).To(Equal(0))

	s.repo.Create(ctx, buildUser("One", "c1@example.com"))
	doomed, _ := s.repo.Create(ctx, buildUser("Two", "c2@example.com"))

	count, err = s.repo.CountActive(ctx)
	Expect(err).To(BeNil())
	Expect(count).To(Equal(2))

	s.repo.SoftDeleteByUUID(ctx, doomed.UUID.String())

	count, err = s.repo.CountActive(ctx)
	Expect(err).To(BeNil())
	Expect(count).To(Equal(1))
}
