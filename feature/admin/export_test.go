package admin

import (
	"bytes"
	"testing"
	"time"

	"course-registry/feature/registration/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestExport(t *testing.T) {
	tripoli := time.FixedZone("EET", 2*60*60)
	records := []models.Registration{{
		ID:               7,
		Name:             "Sara",
		Email:            "sara@example.com",
		Phone:            "+218 911234567",
		Experience:       models.ExperienceIntermediate,
		Interests:        []string{"prompting", "api", "other"},
		HearAbout:        "facebook",
		Notes:            "evening",
		RegistrationDate: time.Date(2025, 3, 1, 20, 15, 0, 0, time.UTC),
	}}

	var buf bytes.Buffer
	require.NoError(t, Export(records, &buf, tripoli))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{ExportSheet}, f.GetSheetList())

	rows, err := f.GetRows(ExportSheet)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "الرقم", rows[0][0])
	assert.Equal(t, "تاريخ التسجيل", rows[0][8])

	row := rows[1]
	assert.Equal(t, "7", row[0])
	assert.Equal(t, "متوسط", row[4])
	assert.Equal(t, "كتابة الأوامر الفعالة, استخدام واجهات برمجة الذكاء الاصطناعي, other", row[5])
	assert.Equal(t, "2025-03-01 22:15:00", row[8])
}

func TestExportEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Export(nil, &buf, nil))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(ExportSheet)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestLabels(t *testing.T) {
	assert.Equal(t, "مبتدئ", ExperienceLabel(models.ExperienceBeginner))
	assert.Equal(t, "expert", ExperienceLabel("expert"))
	assert.Equal(t, "أتمتة المهام باستخدام n8n", InterestLabels([]string{"n8n"}))
	assert.Equal(t, "", InterestLabels(nil))
}
