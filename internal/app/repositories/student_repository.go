package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/registrar/internal/app/models"
	"github.com/yigit/registrar/internal/db"
	"github.com/yigit/registrar/internal/pkg/apperrors"
	"github.com/yigit/registrar/internal/pkg/helpers"
	"github.com/yigit/registrar/internal/pkg/logger"
)

// nextMatriculeSQL advances the counter row past both its last value and the
// highest stored matricule. The row lock it takes is held until the enclosing
// transaction ends, so concurrent enrollments are issued distinct values.
const nextMatriculeSQL = `
	UPDATE matricule_counter
	SET value = GREATEST(value, (SELECT COALESCE(MAX(matricule::bigint), $1) FROM students)) + 1
	WHERE id = 1
	RETURNING value`

// StudentRepository handles student persistence, search and reporting
type StudentRepository struct {
	db db.Querier
	sb squirrel.StatementBuilderType
}

// NewStudentRepository creates a new StudentRepository
func NewStudentRepository(q db.Querier) *StudentRepository {
	return &StudentRepository{
		db: q,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// NextMatricule reserves the next matricule. It must run inside the
// transaction that inserts the student.
func (r *StudentRepository) NextMatricule(ctx context.Context) (string, error) {
	var n int64
	if err := r.db.QueryRow(ctx, nextMatriculeSQL, models.MatriculeBase).Scan(&n); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", errors.New("matricule counter row is missing")
		}
		return "", fmt.Errorf("failed to reserve matricule: %w", err)
	}
	return models.FormatMatricule(n), nil
}

// Create inserts a student and sets its ID and creation time
func (r *StudentRepository) Create(ctx context.Context, s *models.Student) error {
	sql, args, err := r.sb.Insert("students").
		Columns(
			"matricule", "first_name", "last_name", "birth_date", "sex", "nationality",
			"birthplace", "grade_level", "previous_school", "blood_group",
			"medical_conditions", "medications", "physician_name", "created_by",
		).
		Values(
			s.Matricule, s.FirstName, s.LastName, s.BirthDate, string(s.Sex), helpers.NullString(s.Nationality),
			helpers.NullString(s.Birthplace), s.GradeLevel, helpers.NullString(s.PreviousSchool), helpers.NullString(s.BloodGroup),
			helpers.NullString(s.MedicalConditions), helpers.NullString(s.Medications), helpers.NullString(s.PhysicianName), s.CreatedBy,
		).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create student SQL")
		return fmt.Errorf("failed to build query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&s.ID, &s.CreatedAt); err != nil {
		return fmt.Errorf("failed to insert student: %w", err)
	}
	return nil
}

// LockByMatricule loads a student and locks its row until the transaction ends
func (r *StudentRepository) LockByMatricule(ctx context.Context, matricule string) (*models.Student, error) {
	s := &models.Student{Matricule: matricule}
	err := r.db.QueryRow(ctx, `SELECT id, grade_level FROM students WHERE matricule = $1 FOR UPDATE`, matricule).
		Scan(&s.ID, &s.GradeLevel)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		return nil, fmt.Errorf("failed to lock student: %w", err)
	}
	return s, nil
}

// UpdateGradeLevel moves a student to a new grade level
func (r *StudentRepository) UpdateGradeLevel(ctx context.Context, studentID int64, gradeLevel string) error {
	sql, args, err := r.sb.Update("students").
		Set("grade_level", gradeLevel).
		Where(squirrel.Eq{"id": studentID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("failed to update grade level: %w", err)
	}
	if tag.RowsAffected() != 1 {
		return apperrors.ErrStudentNotFound
	}
	return nil
}

// summarySelect selects students with their active services and primary guardian
func (r *StudentRepository) summarySelect() squirrel.SelectBuilder {
	return r.sb.Select(
		"s.id", "s.matricule", "s.first_name", "s.last_name", "s.birth_date", "s.sex", "s.grade_level", "s.created_at",
		"COALESCE(ARRAY_AGG(DISTINCT ss.service_type::text) FILTER (WHERE ss.status = 'active'), '{}') AS services",
		"COALESCE(g.full_name, '') AS guardian_name",
		"COALESCE(g.phone, '') AS guardian_phone",
	).
		From("students s").
		LeftJoin("student_services ss ON ss.student_id = s.id").
		LeftJoin("student_guardians sg ON sg.student_id = s.id AND sg.is_primary").
		LeftJoin("guardians g ON g.id = sg.guardian_id").
		GroupBy("s.id", "g.id").
		OrderBy("s.matricule::bigint")
}

// searchFilters composes the optional filters with AND; every user value is a bound parameter
func searchFilters(q squirrel.SelectBuilder, f models.SearchFilter) squirrel.SelectBuilder {
	if f.Matricule != "" {
		q = q.Where(squirrel.Like{"s.matricule": helpers.Contains(f.Matricule)})
	}
	if f.Name != "" {
		pattern := helpers.Contains(f.Name)
		q = q.Where(squirrel.Or{
			squirrel.ILike{"s.first_name": pattern},
			squirrel.ILike{"s.last_name": pattern},
		})
	}
	if f.GradeLevel != "" {
		q = q.Where(squirrel.Eq{"s.grade_level": f.GradeLevel})
	}
	return q
}

func (r *StudentRepository) buildSearchQuery(f models.SearchFilter) squirrel.SelectBuilder {
	q := searchFilters(r.summarySelect().Column("COUNT(*) OVER() AS total"), f)
	if f.Limit > 0 {
		q = q.Limit(uint64(f.Limit)).Offset(f.Offset)
	}
	return q
}

// countMatches counts the students matching f regardless of paging
func (r *StudentRepository) countMatches(ctx context.Context, f models.SearchFilter) (int64, error) {
	sql, args, err := searchFilters(r.sb.Select("COUNT(*)").From("students s"), f).ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build query: %w", err)
	}

	var total int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count students: %w", err)
	}
	return total, nil
}

// Search returns the students matching f and the total number of matches
func (r *StudentRepository) Search(ctx context.Context, f models.SearchFilter) ([]models.StudentSummary, int64, error) {
	sql, args, err := r.buildSearchQuery(f).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building student search SQL")
		return nil, 0, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to search students: %w", err)
	}
	defer rows.Close()

	var total int64
	students := make([]models.StudentSummary, 0)
	for rows.Next() {
		var s models.StudentSummary
		var sex string
		var services []string
		if err := rows.Scan(
			&s.ID, &s.Matricule, &s.FirstName, &s.LastName, &s.BirthDate, &sex, &s.GradeLevel, &s.CreatedAt,
			&services, &s.GuardianName, &s.GuardianPhone, &total,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan student: %w", err)
		}
		s.Sex = models.Sex(sex)
		s.Services = toServiceTypes(services)
		students = append(students, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate students: %w", err)
	}

	// a page past the last match carries no window total
	if len(students) == 0 && f.Offset > 0 {
		total, err = r.countMatches(ctx, f)
		if err != nil {
			return nil, 0, err
		}
	}
	return students, total, nil
}

// ListSummaries returns every student for export
func (r *StudentRepository) ListSummaries(ctx context.Context) ([]models.StudentSummary, error) {
	sql, args, err := r.summarySelect().ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	defer rows.Close()

	students := make([]models.StudentSummary, 0)
	for rows.Next() {
		var s models.StudentSummary
		var sex string
		var services []string
		if err := rows.Scan(
			&s.ID, &s.Matricule, &s.FirstName, &s.LastName, &s.BirthDate, &sex, &s.GradeLevel, &s.CreatedAt,
			&services, &s.GuardianName, &s.GuardianPhone,
		); err != nil {
			return nil, fmt.Errorf("failed to scan student: %w", err)
		}
		s.Sex = models.Sex(sex)
		s.Services = toServiceTypes(services)
		students = append(students, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate students: %w", err)
	}
	return students, nil
}

// Count returns the number of students
func (r *StudentRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM students`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count students: %w", err)
	}
	return n, nil
}

// CountCreatedSince counts students created at or after since
func (r *StudentRepository) CountCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	var n int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM students WHERE created_at >= $1`, since).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count recent students: %w", err)
	}
	return n, nil
}

// CountBySex groups students by sex
func (r *StudentRepository) CountBySex(ctx context.Context) ([]models.GroupCount, error) {
	return r.groupCounts(ctx, `SELECT sex, COUNT(*) FROM students GROUP BY sex ORDER BY sex`)
}

// CountByGradeLevel groups students by current grade level
func (r *StudentRepository) CountByGradeLevel(ctx context.Context) ([]models.GroupCount, error) {
	return r.groupCounts(ctx, `SELECT grade_level, COUNT(*) FROM students GROUP BY grade_level ORDER BY grade_level`)
}

// CountByServiceType counts active subscriptions per service type
func (r *StudentRepository) CountByServiceType(ctx context.Context) ([]models.GroupCount, error) {
	return r.groupCounts(ctx, `
		SELECT service_type, COUNT(*)
		FROM student_services
		WHERE status = 'active'
		GROUP BY service_type
		ORDER BY service_type`)
}

func (r *StudentRepository) groupCounts(ctx context.Context, sql string) ([]models.GroupCount, error) {
	rows, err := r.db.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("failed to run aggregate: %w", err)
	}
	defer rows.Close()

	counts := make([]models.GroupCount, 0)
	for rows.Next() {
		var gc models.GroupCount
		if err := rows.Scan(&gc.Key, &gc.Count); err != nil {
			return nil, fmt.Errorf("failed to scan aggregate: %w", err)
		}
		counts = append(counts, gc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate aggregate: %w", err)
	}
	return counts, nil
}

func toServiceTypes(names []string) []models.ServiceType {
	out := make([]models.ServiceType, len(names))
	for i, n := range names {
		out[i] = models.ServiceType(n)
	}
	return out
}
