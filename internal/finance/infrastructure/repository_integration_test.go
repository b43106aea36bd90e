package infrastructure

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sebuszqo/FinanceTracker/internal/apperror"
	"github.com/sebuszqo/FinanceTracker/internal/finance/domain"
	"github.com/sebuszqo/FinanceTracker/internal/pagination"
	"github.com/sebuszqo/FinanceTracker/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type RepositorySuite struct {
	suite.Suite
	pg           *testutil.Postgres
	categories   *CategoryRepository
	transactions *TransactionRepository
	alice        uuid.UUID
	bob          uuid.UUID
}

func TestRepositorySuite(t *testing.T) {
	suite.Run(t, new(RepositorySuite))
}

func (s *RepositorySuite) SetupSuite() {
	s.pg = testutil.NewPostgres(s.T())
	s.categories = NewCategoryRepository(s.pg.DB, 5*time.Second)
	s.transactions = NewTransactionRepository(s.pg.DB, 5*time.Second)
}

func (s *RepositorySuite) SetupTest() {
	s.pg.Reset(s.T())
	s.alice = uuid.New()
	s.bob = uuid.New()
	s.pg.InsertUser(s.T(), s.alice.String(), "alice@example.com")
	s.pg.InsertUser(s.T(), s.bob.String(), "bob@example.com")
}

func firstPage() domain.ListParams {
	return domain.ListParams{Page: pagination.New(1, 10, 0)}
}

func (s *RepositorySuite) createCategory(owner uuid.UUID, name string, categoryType domain.CategoryType) domain.Category {
	category := domain.Category{Name: name, Type: categoryType, UserID: owner}
	s.Require().NoError(s.categories.Create(context.Background(), &category))
	return category
}

func (s *RepositorySuite) createTransaction(owner, categoryID uuid.UUID, description, amount string) domain.Transaction {
	transaction := domain.Transaction{
		Description: description,
		Amount:      decimal.RequireFromString(amount),
		CategoryID:  categoryID,
		UserID:      owner,
	}
	s.Require().NoError(s.transactions.Create(context.Background(), &transaction))
	return transaction
}

func (s *RepositorySuite) TestCategoryRoundTrip() {
	ctx := context.Background()
	created := s.createCategory(s.alice, "Salary", domain.Income)

	found, err := s.categories.FindByID(ctx, s.alice, created.ID)
	s.Require().NoError(err)
	s.Equal("Salary", found.Name)
	s.Equal(domain.Income, found.Type)
	s.Equal(s.alice, found.UserID)
	s.False(found.CreatedAt.IsZero())
}

func (s *RepositorySuite) TestOwnershipIsolation() {
	ctx := context.Background()
	category := s.createCategory(s.alice, "Groceries", domain.Expense)
	transaction := s.createTransaction(s.alice, category.ID, "Weekly shop", "54.20")

	bobsCategories, err := s.categories.List(ctx, s.bob, firstPage())
	s.Require().NoError(err)
	s.Empty(bobsCategories)
	s.NotNil(bobsCategories)

	bobsTransactions, err := s.transactions.List(ctx, s.bob, firstPage())
	s.Require().NoError(err)
	s.Empty(bobsTransactions)

	_, err = s.categories.FindByID(ctx, s.bob, category.ID)
	s.ErrorIs(err, domain.ErrCategoryNotFound)
	_, err = s.transactions.FindByID(ctx, s.bob, transaction.ID)
	s.ErrorIs(err, domain.ErrTransactionNotFound)

	hijack := domain.Category{ID: category.ID, Name: "Mine now", Type: domain.Income, UserID: s.bob}
	s.ErrorIs(s.categories.Update(ctx, &hijack), domain.ErrCategoryNotFound)
	s.ErrorIs(s.categories.Delete(ctx, s.bob, category.ID), domain.ErrCategoryNotFound)
	s.ErrorIs(s.transactions.Delete(ctx, s.bob, transaction.ID), domain.ErrTransactionNotFound)

	found, err := s.categories.FindByID(ctx, s.alice, category.ID)
	s.Require().NoError(err)
	s.Equal("Groceries", found.Name)
}

func (s *RepositorySuite) TestSecondDeleteIsNotFound() {
	ctx := context.Background()
	category := s.createCategory(s.alice, "Gifts", domain.Expense)

	s.Require().NoError(s.categories.Delete(ctx, s.alice, category.ID))
	s.ErrorIs(s.categories.Delete(ctx, s.alice, category.ID), domain.ErrCategoryNotFound)
}

func (s *RepositorySuite) TestUpdateMissingCategory() {
	missing := domain.Category{ID: uuid.New(), Name: "Ghost", Type: domain.Expense, UserID: s.alice}
	s.ErrorIs(s.categories.Update(context.Background(), &missing), domain.ErrCategoryNotFound)
}

func (s *RepositorySuite) TestPagination() {
	ctx := context.Background()
	for i := 1; i <= 12; i++ {
		s.createCategory(s.alice, fmt.Sprintf("Category %02d", i), domain.Expense)
	}

	params := domain.ListParams{Page: pagination.New(2, 5, 0), SortBy: "name", Order: "asc"}
	page2, err := s.categories.List(ctx, s.alice, params)
	s.Require().NoError(err)
	s.Require().Len(page2, 5)
	for i, category := range page2 {
		s.Equal(fmt.Sprintf("Category %02d", i+6), category.Name)
	}

	params.Page = pagination.New(4, 5, 0)
	beyond, err := s.categories.List(ctx, s.alice, params)
	s.Require().NoError(err)
	s.Empty(beyond)

	params.Page = pagination.New(1e18, 10, 0)
	farBeyond, err := s.categories.List(ctx, s.alice, params)
	s.Require().NoError(err)
	s.Empty(farBeyond)
}

func (s *RepositorySuite) TestFilterAndSort() {
	ctx := context.Background()
	s.createCategory(s.alice, "Rent", domain.Expense)
	s.createCategory(s.alice, "Car rental", domain.Expense)
	s.createCategory(s.alice, "Salary", domain.Income)
	s.createCategory(s.alice, "100% bonus", domain.Income)

	rent, err := s.categories.List(ctx, s.alice, domain.ListParams{Page: pagination.New(1, 10, 0), Filter: "RENT", SortBy: "name", Order: "desc"})
	s.Require().NoError(err)
	s.Require().Len(rent, 2)
	s.Equal("Rent", rent[0].Name)
	s.Equal("Car rental", rent[1].Name)

	percent, err := s.categories.List(ctx, s.alice, domain.ListParams{Page: pagination.New(1, 10, 0), Filter: "%"})
	s.Require().NoError(err)
	s.Require().Len(percent, 1)
	s.Equal("100% bonus", percent[0].Name)

	injected, err := s.categories.List(ctx, s.alice, domain.ListParams{Page: pagination.New(1, 10, 0), SortBy: "name; DROP TABLE category"})
	s.Require().NoError(err)
	s.Len(injected, 4)
}

func (s *RepositorySuite) TestTransactionRejectsForeignCategory() {
	ctx := context.Background()
	bobsCategory := s.createCategory(s.bob, "Bob's salary", domain.Income)

	transaction := domain.Transaction{
		Description: "Sneaky",
		Amount:      decimal.RequireFromString("10"),
		CategoryID:  bobsCategory.ID,
		UserID:      s.alice,
	}
	err := s.transactions.Create(ctx, &transaction)
	s.ErrorIs(err, domain.ErrInvalidCategory)

	missing := transaction
	missing.CategoryID = uuid.New()
	errMissing := s.transactions.Create(ctx, &missing)
	s.ErrorIs(errMissing, domain.ErrInvalidCategory)
	s.Equal(err.Error(), errMissing.Error())

	list, err := s.transactions.List(ctx, s.alice, firstPage())
	s.Require().NoError(err)
	s.Empty(list)
}

func (s *RepositorySuite) TestTransactionTypeFromCategory() {
	category := s.createCategory(s.alice, "Salary", domain.Income)
	transaction := s.createTransaction(s.alice, category.ID, "March salary", "4200.129")

	found, err := s.transactions.FindByID(context.Background(), s.alice, transaction.ID)
	s.Require().NoError(err)
	s.Equal(domain.Income, found.Type)
	s.Equal("March salary", found.Description)
	s.Equal("4200.13", found.Amount.StringFixed(2))
}

func (s *RepositorySuite) TestTransactionUpdate() {
	ctx := context.Background()
	food := s.createCategory(s.alice, "Food", domain.Expense)
	fun := s.createCategory(s.alice, "Fun", domain.Expense)
	bobs := s.createCategory(s.bob, "Bob's", domain.Expense)
	transaction := s.createTransaction(s.alice, food.ID, "Pizza", "30")

	transaction.CategoryID = fun.ID
	transaction.Description = "Cinema"
	s.Require().NoError(s.transactions.Update(ctx, &transaction))

	found, err := s.transactions.FindByID(ctx, s.alice, transaction.ID)
	s.Require().NoError(err)
	s.Equal(fun.ID, found.CategoryID)
	s.Equal("Cinema", found.Description)

	transaction.CategoryID = bobs.ID
	s.ErrorIs(s.transactions.Update(ctx, &transaction), domain.ErrInvalidCategory)

	ghost := transaction
	ghost.ID = uuid.New()
	ghost.CategoryID = fun.ID
	s.ErrorIs(s.transactions.Update(ctx, &ghost), domain.ErrTransactionNotFound)
}

func (s *RepositorySuite) TestCategoryDeleteCascades() {
	ctx := context.Background()
	category := s.createCategory(s.alice, "Travel", domain.Expense)
	transaction := s.createTransaction(s.alice, category.ID, "Train", "89.90")

	s.Require().NoError(s.categories.Delete(ctx, s.alice, category.ID))

	_, err := s.transactions.FindByID(ctx, s.alice, transaction.ID)
	s.ErrorIs(err, domain.ErrTransactionNotFound)
}

func (s *RepositorySuite) TestUserDeleteCascades() {
	ctx := context.Background()
	category := s.createCategory(s.alice, "Travel", domain.Expense)
	s.createTransaction(s.alice, category.ID, "Train", "89.90")

	_, err := s.pg.DB.Exec(`DELETE FROM auth_users WHERE id = $1`, s.alice)
	s.Require().NoError(err)

	var remaining int
	s.Require().NoError(s.pg.DB.QueryRow(`SELECT COUNT(*) FROM "transaction"`).Scan(&remaining))
	s.Zero(remaining)
	s.Require().NoError(s.pg.DB.QueryRow(`SELECT COUNT(*) FROM category`).Scan(&remaining))
	s.Zero(remaining)

	_, err = s.categories.List(ctx, s.alice, firstPage())
	s.NoError(err)
}

func (s *RepositorySuite) TestCreateBatchIsAllOrNothing() {
	ctx := context.Background()
	mine := s.createCategory(s.alice, "Bills", domain.Expense)
	bobs := s.createCategory(s.bob, "Bob's", domain.Expense)

	batch := []*domain.Transaction{
		{Description: "Water", Amount: decimal.RequireFromString("20"), CategoryID: mine.ID},
		{Description: "Power", Amount: decimal.RequireFromString("40"), CategoryID: bobs.ID},
	}
	err := s.transactions.CreateBatch(ctx, s.alice, batch)
	s.Require().Error(err)
	s.True(apperror.IsValidationErrors(err))
	s.Contains(err.Error(), "Validation error at transaction 2")

	list, err := s.transactions.List(ctx, s.alice, firstPage())
	s.Require().NoError(err)
	s.Empty(list)

	batch[1].CategoryID = mine.ID
	s.Require().NoError(s.transactions.CreateBatch(ctx, s.alice, batch))
	list, err = s.transactions.List(ctx, s.alice, firstPage())
	s.Require().NoError(err)
	s.Len(list, 2)
}

func (s *RepositorySuite) TestConcurrentCreateAndCategoryDelete() {
	ctx := context.Background()
	category := s.createCategory(s.alice, "Race", domain.Expense)

	var wg sync.WaitGroup
	errs := make(chan error, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			transaction := domain.Transaction{
				Description: fmt.Sprintf("Entry %d", i),
				Amount:      decimal.NewFromInt(int64(i + 1)),
				CategoryID:  category.ID,
				UserID:      s.alice,
			}
			errs <- s.transactions.Create(ctx, &transaction)
		}(i)
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		errs <- s.categories.Delete(ctx, s.alice, category.ID)
	}()
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			s.ErrorIs(err, domain.ErrInvalidCategory)
		}
	}

	var orphans int
	s.Require().NoError(s.pg.DB.QueryRow(
		`SELECT COUNT(*) FROM "transaction" t LEFT JOIN category c ON c.id = t.category_id WHERE c.id IS NULL`,
	).Scan(&orphans))
	s.Zero(orphans)
}

func (s *RepositorySuite) TestStoreTimeout() {
	slow := NewCategoryRepository(s.pg.DB, time.Nanosecond)
	_, err := slow.List(context.Background(), s.alice, firstPage())
	s.Require().Error(err)
	s.ErrorIs(err, apperror.ErrStoreTimeout)
}
