package services

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/yigit/registrar/internal/app/migrations"
	"github.com/yigit/registrar/internal/app/models"
	"github.com/yigit/registrar/internal/app/repositories"
	"github.com/yigit/registrar/internal/db"
	"github.com/yigit/registrar/internal/pkg/apperrors"
)

// integrationDSNEnv names a disposable PostgreSQL database; its tables are truncated
const integrationDSNEnv = "REGISTRAR_TEST_DATABASE_URL"

type integrationEnv struct {
	db      *db.PostgresDB
	userID  int64
	enroll  EnrollmentService
	student StudentService
}

func setupIntegration(t *testing.T) *integrationEnv {
	t.Helper()
	dsn := os.Getenv(integrationDSNEnv)
	if dsn == "" {
		t.Skipf("%s not set", integrationDSNEnv)
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	pdb := db.New(pool)
	t.Cleanup(pdb.Close)

	_, err = migrations.NewMigrator(pdb).Up(ctx)
	require.NoError(t, err)

	_, err = pool.Exec(ctx, `TRUNCATE students, guardians, student_guardians, emergency_contacts,
		student_services, payments, documents, reenrollments, users RESTART IDENTITY CASCADE`)
	require.NoError(t, err)
	_, err = pool.Exec(ctx, `UPDATE matricule_counter SET value = $1`, models.MatriculeBase)
	require.NoError(t, err)

	user := &models.User{Username: "secretariat", PasswordHash: "x", Role: models.RoleSecretary}
	require.NoError(t, repositories.NewUserRepository(pool).Create(ctx, user))

	return &integrationEnv{
		db:      pdb,
		userID:  user.ID,
		enroll:  NewEnrollmentService(pdb, &fakeStorage{}, zerolog.Nop()),
		student: NewStudentService(pdb, repositories.NewStudentRepository(pool), zerolog.Nop()),
	}
}

func (e *integrationEnv) count(t *testing.T, table string) int64 {
	t.Helper()
	var n int64
	require.NoError(t, e.db.Pool.QueryRow(context.Background(), "SELECT COUNT(*) FROM "+table).Scan(&n))
	return n
}

func TestIntegrationFirstMatricule(t *testing.T) {
	env := setupIntegration(t)

	res, err := env.enroll.Enroll(context.Background(), env.userID, validEnrollment(), nil)
	require.NoError(t, err)
	assert.Equal(t, "240001", res.Matricule)

	assert.Equal(t, int64(1), env.count(t, "students"))
	assert.Equal(t, int64(2), env.count(t, "guardians"))
	assert.Equal(t, int64(1), env.count(t, "student_services"))
	assert.Equal(t, int64(1), env.count(t, "payments"))
}

func TestIntegrationConcurrentEnrollmentsGetDistinctMatricules(t *testing.T) {
	env := setupIntegration(t)
	const n = 20

	var (
		mu         sync.Mutex
		matricules []string
	)
	g, ctx := errgroup.WithContext(context.Background())
	for i := 0; i < n; i++ {
		in := validEnrollment()
		in.Student.FirstName = fmt.Sprintf("Student%02d", i)
		g.Go(func() error {
			res, err := env.enroll.Enroll(ctx, env.userID, in, nil)
			if err != nil {
				return err
			}
			mu.Lock()
			matricules = append(matricules, res.Matricule)
			mu.Unlock()
			return nil
		})
	}
	require.NoError(t, g.Wait())

	sort.Strings(matricules)
	require.Len(t, matricules, n)
	for i, m := range matricules {
		assert.Equal(t, models.FormatMatricule(models.MatriculeBase+int64(i)+1), m)
	}
	assert.Equal(t, int64(n), env.count(t, "students"))
}

func TestIntegrationFailedEnrollmentLeavesNoTrace(t *testing.T) {
	env := setupIntegration(t)

	in := validEnrollment()
	// longer than emergency_contacts.phone
	in.EmergencyContact.Phone = strings.Repeat("7", 40)
	_, err := env.enroll.Enroll(context.Background(), env.userID, in, nil)
	require.ErrorIs(t, err, apperrors.ErrEnrollmentFailed)

	for _, table := range []string{"students", "guardians", "student_guardians", "emergency_contacts", "student_services", "payments"} {
		assert.Zero(t, env.count(t, table), table)
	}

	// the reserved matricule was rolled back with the rest
	res, err := env.enroll.Enroll(context.Background(), env.userID, validEnrollment(), nil)
	require.NoError(t, err)
	assert.Equal(t, "240001", res.Matricule)
}

func TestIntegrationReenrollment(t *testing.T) {
	env := setupIntegration(t)
	ctx := context.Background()

	res, err := env.enroll.Enroll(ctx, env.userID, validEnrollment(), nil)
	require.NoError(t, err)

	out, err := env.enroll.Reenroll(ctx, env.userID, models.ReenrollmentInput{
		Matricule:     res.Matricule,
		NewGradeLevel: "CE1",
		SchoolYear:    "2025-2026",
		Payment:       models.Payment{Amount: 20000, PaymentMode: "cash"},
	})
	require.NoError(t, err)
	assert.Equal(t, "CP", out.PreviousGradeLevel)

	students, _, err := env.student.Search(ctx, models.SearchFilter{Matricule: res.Matricule})
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Equal(t, "CE1", students[0].GradeLevel)
	assert.Equal(t, int64(2), env.count(t, "payments"))

	_, err = env.enroll.Reenroll(ctx, env.userID, models.ReenrollmentInput{
		Matricule:     "999999",
		NewGradeLevel: "CE1",
		Payment:       models.Payment{PaymentMode: "cash"},
	})
	assert.ErrorIs(t, err, apperrors.ErrStudentNotFound)
}

func TestIntegrationStatisticsAddUp(t *testing.T) {
	env := setupIntegration(t)
	ctx := context.Background()

	for i, level := range []string{"CP", "CP", "CE1", "Hifz"} {
		in := validEnrollment()
		in.Student.GradeLevel = level
		if i%2 == 1 {
			in.Student.Sex = models.SexMale
		}
		_, err := env.enroll.Enroll(ctx, env.userID, in, nil)
		require.NoError(t, err)
	}

	stats, err := env.student.Statistics(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(4), stats.Total)
	assert.Equal(t, int64(4), stats.NewLast30Days)

	sum := func(groups []models.GroupCount) int64 {
		var total int64
		for _, g := range groups {
			total += g.Count
		}
		return total
	}
	assert.Equal(t, stats.Total, sum(stats.BySex))
	assert.Equal(t, stats.Total, sum(stats.ByGradeLevel))
	assert.Equal(t, int64(4), sum(stats.ByServiceType))
}

func TestIntegrationSearchFilters(t *testing.T) {
	env := setupIntegration(t)
	ctx := context.Background()

	roster := []struct{ first, last, level string }{
		{"Awa", "Diallo", "CP"},     // 240001
		{"Moussa", "Diallo", "CE1"}, // 240002
		{"Fatou", "Ndiaye", "CP"},   // 240003
		{"Ibrahima", "Sow", "Hifz"}, // 240004
	}
	for _, r := range roster {
		in := validEnrollment()
		in.Student.FirstName, in.Student.LastName, in.Student.GradeLevel = r.first, r.last, r.level
		_, err := env.enroll.Enroll(ctx, env.userID, in, nil)
		require.NoError(t, err)
	}

	matricules := func(students []models.StudentSummary) []string {
		out := make([]string, len(students))
		for i, s := range students {
			out[i] = s.Matricule
		}
		return out
	}

	tests := []struct {
		name   string
		filter models.SearchFilter
		want   []string
		total  int64
	}{
		{"no filters returns everyone", models.SearchFilter{}, []string{"240001", "240002", "240003", "240004"}, 4},
		{"grade level subset", models.SearchFilter{GradeLevel: "CP"}, []string{"240001", "240003"}, 2},
		{"matricule and name both apply", models.SearchFilter{Matricule: "240002", Name: "diallo"}, []string{"240002"}, 1},
		{"name alone", models.SearchFilter{Name: "DIALLO"}, []string{"240001", "240002"}, 2},
		{"no match", models.SearchFilter{Matricule: "240003", Name: "diallo"}, []string{}, 0},
		{"page", models.SearchFilter{Limit: 2, Offset: 2}, []string{"240003", "240004"}, 4},
		{"page past the last match", models.SearchFilter{Limit: 2, Offset: 10}, []string{}, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			students, total, err := env.student.Search(ctx, tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.want, matricules(students))
			assert.Equal(t, tt.total, total)
		})
	}
}
