package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"github.com/yigit/registrar/internal/app/models"
)

func TestWriteStudents(t *testing.T) {
	birth := time.Date(2018, 3, 14, 0, 0, 0, 0, time.UTC)
	students := []models.StudentSummary{
		{
			Student: models.Student{
				Matricule: "240001", FirstName: "Awa", LastName: "Diallo",
				BirthDate: &birth, Sex: models.SexFemale, GradeLevel: "CP",
			},
			Services:      []models.ServiceType{models.ServiceTransport, models.ServiceCafeteria},
			GuardianName:  "Mariam Diallo",
			GuardianPhone: "770000000",
		},
		{
			Student: models.Student{Matricule: "240002", FirstName: "Ousmane", LastName: "Ba", Sex: models.SexMale, GradeLevel: "Hifz"},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteStudents(&buf, students))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, Columns, rows[0])
	assert.Equal(t, []string{"240001", "Awa", "Diallo", "2018-03-14", "F", "CP", "Mariam Diallo", "770000000", "transport, cafeteria"}, rows[1])
	assert.Equal(t, "240002", rows[2][0])
	assert.Equal(t, "Hifz", rows[2][5])

	styleID, err := f.GetCellStyle(sheetName, "A1")
	require.NoError(t, err)
	style, err := f.GetStyle(styleID)
	require.NoError(t, err)
	require.NotNil(t, style.Font)
	assert.True(t, style.Font.Bold)
	require.NotEmpty(t, style.Fill.Color)
	assert.Contains(t, strings.ToUpper(style.Fill.Color[0]), strings.TrimPrefix(headerColor, "#"))
}

func TestWriteStudentsEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteStudents(&buf, nil))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, rows, 1)
}
