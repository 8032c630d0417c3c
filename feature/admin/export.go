package admin

import (
	"fmt"
	"io"
	"strings"
	"time"

	"course-registry/feature/registration/models"

	"github.com/xuri/excelize/v2"
)

const (
	// ExportSheet is the worksheet holding the registrations.
	ExportSheet = "المسجلين"
	// ExportFileName is the download name of the workbook.
	ExportFileName = "ai_tools_course_registrations.xlsx"
	// ExportContentType is the MIME type of the workbook.
	ExportContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	// ExportDateLayout renders registration dates.
	ExportDateLayout = "2006-01-02 15:04:05"
)

var exportHeader = []interface{}{
	"الرقم",
	"الاسم",
	"البريد الإلكتروني",
	"رقم الهاتف",
	"مستوى الخبرة",
	"مجالات الاهتمام",
	"كيف سمع عنا",
	"ملاحظات",
	"تاريخ التسجيل",
}

var experienceLabels = map[models.Experience]string{
	models.ExperienceBeginner:     "مبتدئ",
	models.ExperienceIntermediate: "متوسط",
	models.ExperienceAdvanced:     "متقدم",
}

var interestLabels = map[string]string{
	"prompting": "كتابة الأوامر الفعالة",
	"n8n":       "أتمتة المهام باستخدام n8n",
	"coding":    "البرمجة باستخدام أدوات الذكاء الاصطناعي",
	"api":       "استخدام واجهات برمجة الذكاء الاصطناعي",
}

// ExperienceLabel returns the display label of an experience level.
func ExperienceLabel(e models.Experience) string {
	if label, ok := experienceLabels[e]; ok {
		return label
	}
	return string(e)
}

// InterestLabels returns the display labels of interest tags joined by ", ".
// Unknown tags are shown as is.
func InterestLabels(tags []string) string {
	labels := make([]string, 0, len(tags))
	for _, tag := range tags {
		if label, ok := interestLabels[tag]; ok {
			labels = append(labels, label)
		} else {
			labels = append(labels, tag)
		}
	}
	return strings.Join(labels, ", ")
}

// Export writes records as an xlsx workbook to w. Dates are rendered in loc.
func Export(records []models.Registration, w io.Writer, loc *time.Location) error {
	if loc == nil {
		loc = time.UTC
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", ExportSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}
	rtl := true
	if err := f.SetSheetView(ExportSheet, 0, &excelize.ViewOptions{RightToLeft: &rtl}); err != nil {
		return fmt.Errorf("failed to set sheet view: %w", err)
	}
	if err := f.SetSheetRow(ExportSheet, "A1", &exportHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, r := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		date := ""
		if !r.RegistrationDate.IsZero() {
			date = r.RegistrationDate.In(loc).Format(ExportDateLayout)
		}
		row := []interface{}{
			r.ID,
			r.Name,
			r.Email,
			r.Phone,
			ExperienceLabel(r.Experience),
			InterestLabels(r.Interests),
			r.HearAbout,
			r.Notes,
			date,
		}
		if err := f.SetSheetRow(ExportSheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := f.SetColWidth(ExportSheet, "A", "I", 22); err != nil {
		return fmt.Errorf("failed to size columns: %w", err)
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
