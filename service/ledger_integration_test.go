package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"ecochampions/config"
	"ecochampions/events"
	"ecochampions/models"
	"ecochampions/repository"
	"ecochampions/repository/testutil"
	"ecochampions/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type integrationServices struct {
	engine    service.RewardEngine
	accounts  service.AccountService
	recycling service.RecyclingService
	projects  service.ProjectService
	trades    service.TradeService
}

func setupServices(t *testing.T) (*testutil.TestDatabase, integrationServices) {
	testDB := testutil.SetupTestDatabase(t)

	bus := events.NewBus()
	uowFactory := repository.NewUnitOfWorkFactory(testDB.DB, bus)
	rewards := config.DefaultRewards()
	engine := service.NewRewardEngine(uowFactory)

	return testDB, integrationServices{
		engine:    engine,
		accounts:  service.NewAccountService(uowFactory),
		recycling: service.NewRecyclingService(uowFactory, rewards),
		projects:  service.NewProjectService(uowFactory, engine, bus, rewards),
		trades:    service.NewTradeService(uowFactory, engine, bus, rewards),
	}
}

func TestLedgerConsistency_Integration(t *testing.T) {
	testDB, svc := setupServices(t)
	ctx := context.Background()

	alice, err := svc.accounts.CreateAccount(ctx, "Alice", "alice@example.org", "Riverside")
	require.NoError(t, err)
	bob, err := svc.accounts.CreateAccount(ctx, "Bob", "bob@example.org", "Riverside")
	require.NoError(t, err)

	_, err = svc.accounts.CreateAccount(ctx, "Alice Again", "ALICE@example.org", "")
	assert.ErrorIs(t, err, service.ErrConflict)

	for i := 0; i < 3; i++ {
		_, err := svc.recycling.RecordRecyclingLog(ctx, alice.ID, "plastic", 1.5, "")
		require.NoError(t, err)
	}
	_, err = svc.recycling.ClaimGuideBonus(ctx, alice.ID)
	require.NoError(t, err)

	project, err := svc.projects.CreateProject(ctx, bob.ID, service.NewProject{
		Title:        "Bottle drive",
		GoalMaterial: "plastic",
		GoalWeight:   1000,
		DaysLeft:     10,
	})
	require.NoError(t, err)

	_, err = svc.projects.JoinProject(ctx, alice.ID, project.ID, 4)
	require.NoError(t, err)

	_, err = svc.trades.FinalizeTrade(ctx, bob.ID, alice.ID, bob.ID)
	require.NoError(t, err)

	// 3*5 + 15 + 5 + 10 + 50
	aliceAccount, err := svc.accounts.GetAccount(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(95), aliceAccount.EcoCoins)
	assert.Equal(t, models.TierEcoEnabler, aliceAccount.Role)

	// 10 + 5 + 50
	bobAccount, err := svc.accounts.GetAccount(ctx, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(65), bobAccount.EcoCoins)
	assert.Equal(t, models.TierEcoEnabler, bobAccount.Role)

	for _, user := range []*models.User{alice, bob} {
		audit, err := svc.accounts.VerifyLedger(ctx, user.ID)
		require.NoError(t, err)
		assert.True(t, audit.Consistent(), "ledger for %s: balance %d, sum %d", user.Name, audit.Balance, audit.TransactionSum)
	}

	txs, err := svc.accounts.GetTransactions(ctx, alice.ID, 0)
	require.NoError(t, err)
	assert.Len(t, txs, 7)

	var total int64
	require.NoError(t, testDB.DB.QueryRow(ctx, `SELECT COALESCE(SUM(eco_coins), 0)::BIGINT FROM users`).Scan(&total))
	assert.Equal(t, int64(160), total)
}

func TestConcurrentAwards_Integration(t *testing.T) {
	testDB, svc := setupServices(t)
	ctx := context.Background()
	user := testutil.InsertTestUser(t, testDB.DB, "racer")

	const n = 25
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.engine.AwardCoins(ctx, user.ID, 1, models.ReasonManualAward)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	audit, err := svc.accounts.VerifyLedger(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(n), audit.Balance)
	assert.Equal(t, int64(n), audit.Transactions)
	assert.True(t, audit.Consistent())
}

func TestConcurrentProjectCompletion_Integration(t *testing.T) {
	testDB, svc := setupServices(t)
	ctx := context.Background()

	creator := testutil.InsertTestUser(t, testDB.DB, "creator")
	first := testutil.InsertTestUser(t, testDB.DB, "first")
	second := testutil.InsertTestUser(t, testDB.DB, "second")
	project := testutil.InsertTestProject(t, testDB.DB, &creator.ID, 100)

	type joinResult struct {
		result *service.JoinProjectResult
		err    error
	}
	results := make(chan joinResult, 2)
	var wg sync.WaitGroup
	for _, j := range []struct {
		user   *models.User
		weight float64
	}{{first, 60}, {second, 50}} {
		wg.Add(1)
		go func(user *models.User, weight float64) {
			defer wg.Done()
			r, err := svc.projects.JoinProject(ctx, user.ID, project.ID, weight)
			results <- joinResult{r, err}
		}(j.user, j.weight)
	}
	wg.Wait()
	close(results)

	completions := 0
	for r := range results {
		require.NoError(t, r.err)
		if r.result.Completed {
			completions++
		}
	}
	assert.Equal(t, 1, completions)

	var status string
	var paid int
	require.NoError(t, testDB.DB.QueryRow(ctx, `SELECT status FROM projects WHERE id = $1`, project.ID).Scan(&status))
	require.NoError(t, testDB.DB.QueryRow(ctx, `SELECT COUNT(*) FROM coin_transactions WHERE reason = $1`, models.ReasonCompleteProject).Scan(&paid))
	assert.Equal(t, string(models.ProjectStatusCompleted), status)
	assert.Equal(t, 2, paid)

	// Joining a completed project adds weight but pays no completion bonus
	late := testutil.InsertTestUser(t, testDB.DB, "late")
	r, err := svc.projects.JoinProject(ctx, late.ID, project.ID, 5)
	require.NoError(t, err)
	assert.False(t, r.Completed)
	assert.Equal(t, 115.0, r.CollectedWeight)
	require.NoError(t, testDB.DB.QueryRow(ctx, `SELECT COUNT(*) FROM coin_transactions WHERE reason = $1`, models.ReasonCompleteProject).Scan(&paid))
	assert.Equal(t, 2, paid)

	// 10 join + 20 completion
	for _, user := range []*models.User{first, second} {
		account, err := svc.accounts.GetAccount(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(30), account.EcoCoins)
	}
	// 5 per participant joined
	creatorAccount, err := svc.accounts.GetAccount(ctx, creator.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(15), creatorAccount.EcoCoins)
}

func TestRecyclingStreakCadence_Integration(t *testing.T) {
	testDB, svc := setupServices(t)
	ctx := context.Background()
	user := testutil.InsertTestUser(t, testDB.DB, "recycler")

	var bonuses []int64
	var last *service.RecyclingResult
	for i := 0; i < 6; i++ {
		result, err := svc.recycling.RecordRecyclingLog(ctx, user.ID, []string{"Plastic", "glass"}[i%2], 2, "")
		require.NoError(t, err)
		if result.StreakBonus {
			bonuses = append(bonuses, result.LogCount)
		}
		last = result
	}

	assert.Equal(t, []int64{3, 6}, bonuses)
	assert.Equal(t, int64(60), last.Balance)
	assert.Equal(t, models.TierEcoEnabler, last.Tier)
	assert.Equal(t, 12.0, last.Monthly.TotalWeight)
	require.Len(t, last.Monthly.Materials, 2)
	assert.Equal(t, "glass", last.Monthly.Materials[0].Material)
	assert.Equal(t, 50.0, last.Monthly.Materials[0].Percent)
}

func TestGuideBonusIdempotent_Integration(t *testing.T) {
	testDB, svc := setupServices(t)
	ctx := context.Background()
	user := testutil.InsertTestUser(t, testDB.DB, "reader")

	const attempts = 5
	var wg sync.WaitGroup
	errs := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.recycling.ClaimGuideBonus(ctx, user.ID)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	succeeded, claimed := 0, 0
	for err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, service.ErrAlreadyClaimed):
			claimed++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, attempts-1, claimed)

	account, err := svc.accounts.GetAccount(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), account.EcoCoins)
	assert.True(t, account.GuideBonusClaimed)
}

func TestTradeForbiddenLeavesLedgerUntouched_Integration(t *testing.T) {
	testDB, svc := setupServices(t)
	ctx := context.Background()
	buyer := testutil.InsertTestUser(t, testDB.DB, "buyer")
	seller := testutil.InsertTestUser(t, testDB.DB, "seller")
	outsider := testutil.InsertTestUser(t, testDB.DB, "outsider")

	_, err := svc.trades.FinalizeTrade(ctx, outsider.ID, buyer.ID, seller.ID)
	assert.ErrorIs(t, err, service.ErrForbidden)

	var count int
	require.NoError(t, testDB.DB.QueryRow(ctx, `SELECT COUNT(*) FROM coin_transactions`).Scan(&count))
	assert.Zero(t, count)

	result, err := svc.trades.FinalizeTrade(ctx, buyer.ID, buyer.ID, seller.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(50), result.BuyerBalance)
	assert.Equal(t, int64(50), result.SellerBalance)
}
