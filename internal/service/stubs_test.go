package service

import (
	"context"
	"sort"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/scolaris/scolaris-go-api/internal/models"
)

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

type stubStudentRepo struct {
	students []models.Student
	classes  *stubClassRepo
	nextID   uint
}

func (r *stubStudentRepo) Create(ctx context.Context, student *models.Student) error {
	r.nextID++
	student.ID = r.nextID
	r.students = append(r.students, *student)
	return nil
}

func (r *stubStudentRepo) GetByID(ctx context.Context, id uint) (models.Student, error) {
	for _, student := range r.students {
		if student.ID == id {
			if r.classes != nil && student.ClassID != nil {
				if class, err := r.classes.GetByID(ctx, *student.ClassID); err == nil {
					student.Class = &class
				}
			}
			return student, nil
		}
	}
	return models.Student{}, gorm.ErrRecordNotFound
}

func (r *stubStudentRepo) GetByMatricule(ctx context.Context, matricule string) (models.Student, error) {
	for _, student := range r.students {
		if student.Matricule == matricule {
			return student, nil
		}
	}
	return models.Student{}, gorm.ErrRecordNotFound
}

func (r *stubStudentRepo) List(ctx context.Context) ([]models.Student, error) {
	return append([]models.Student(nil), r.students...), nil
}

func (r *stubStudentRepo) ListByClass(ctx context.Context, classID uint) ([]models.Student, error) {
	var out []models.Student
	for _, student := range r.students {
		if student.ClassID != nil && *student.ClassID == classID {
			out = append(out, student)
		}
	}
	return out, nil
}

func (r *stubStudentRepo) ListByClassSubdivision(ctx context.Context, classID uint, subdivision string) ([]models.Student, error) {
	var out []models.Student
	for _, student := range r.students {
		if student.ClassID != nil && *student.ClassID == classID && student.Subdivision == subdivision {
			out = append(out, student)
		}
	}
	return out, nil
}

func (r *stubStudentRepo) Update(ctx context.Context, student *models.Student) error {
	for i := range r.students {
		if r.students[i].ID == student.ID {
			guardians := r.students[i].Guardians
			r.students[i] = *student
			if student.Guardians == nil {
				r.students[i].Guardians = guardians
			}
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *stubStudentRepo) Delete(ctx context.Context, id uint) error {
	for i := range r.students {
		if r.students[i].ID == id {
			r.students = append(r.students[:i], r.students[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

type stubClassRepo struct {
	classes []models.Class
	nextID  uint
}

func (r *stubClassRepo) Create(ctx context.Context, class *models.Class) error {
	r.nextID++
	class.ID = r.nextID
	r.classes = append(r.classes, *class)
	return nil
}

func (r *stubClassRepo) GetByID(ctx context.Context, id uint) (models.Class, error) {
	for _, class := range r.classes {
		if class.ID == id {
			return class, nil
		}
	}
	return models.Class{}, gorm.ErrRecordNotFound
}

func (r *stubClassRepo) List(ctx context.Context) ([]models.Class, error) {
	return append([]models.Class(nil), r.classes...), nil
}

func (r *stubClassRepo) FindSuccessor(ctx context.Context, level int, kind models.ClassKind) (models.Class, error) {
	for _, class := range r.classes {
		if class.Level == level+1 && class.Kind == kind {
			return class, nil
		}
	}
	return models.Class{}, gorm.ErrRecordNotFound
}

func (r *stubClassRepo) Update(ctx context.Context, class *models.Class) error {
	for i := range r.classes {
		if r.classes[i].ID == class.ID {
			r.classes[i] = *class
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *stubClassRepo) ReplaceSubdivisions(ctx context.Context, class *models.Class, subdivisions []models.Subdivision) error {
	class.Subdivisions = subdivisions
	return r.Update(ctx, class)
}

func (r *stubClassRepo) Delete(ctx context.Context, id uint) error {
	for i := range r.classes {
		if r.classes[i].ID == id {
			r.classes = append(r.classes[:i], r.classes[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

type stubSubjectRepo struct {
	subjects []models.Subject
	nextID   uint
}

func (r *stubSubjectRepo) Create(ctx context.Context, subject *models.Subject) error {
	r.nextID++
	subject.ID = r.nextID
	r.subjects = append(r.subjects, *subject)
	return nil
}

func (r *stubSubjectRepo) GetByID(ctx context.Context, id uint) (models.Subject, error) {
	for _, subject := range r.subjects {
		if subject.ID == id {
			return subject, nil
		}
	}
	return models.Subject{}, gorm.ErrRecordNotFound
}

func (r *stubSubjectRepo) List(ctx context.Context) ([]models.Subject, error) {
	return append([]models.Subject(nil), r.subjects...), nil
}

func (r *stubSubjectRepo) ListByClass(ctx context.Context, classID uint) ([]models.Subject, error) {
	var out []models.Subject
	for _, subject := range r.subjects {
		if subject.ClassID != nil && *subject.ClassID == classID {
			out = append(out, subject)
		}
	}
	return out, nil
}

func (r *stubSubjectRepo) Update(ctx context.Context, subject *models.Subject) error {
	for i := range r.subjects {
		if r.subjects[i].ID == subject.ID {
			r.subjects[i] = *subject
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *stubSubjectRepo) Delete(ctx context.Context, id uint) error {
	for i := range r.subjects {
		if r.subjects[i].ID == id {
			r.subjects = append(r.subjects[:i], r.subjects[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

type stubCalendarRepo struct {
	years      []models.SchoolYear
	trimesters []models.Trimester
	periods    []models.Period
}

func (r *stubCalendarRepo) CreateSchoolYear(ctx context.Context, year *models.SchoolYear) error {
	year.ID = uint(len(r.years) + 1)
	r.years = append(r.years, *year)
	return nil
}

func (r *stubCalendarRepo) GetSchoolYear(ctx context.Context, id uint) (models.SchoolYear, error) {
	for _, year := range r.years {
		if year.ID == id {
			year.Trimesters = nil
			for _, trimester := range r.trimesters {
				if trimester.SchoolYearID == id {
					year.Trimesters = append(year.Trimesters, r.withPeriods(trimester))
				}
			}
			sort.Slice(year.Trimesters, func(i, j int) bool {
				return year.Trimesters[i].Position < year.Trimesters[j].Position
			})
			return year, nil
		}
	}
	return models.SchoolYear{}, gorm.ErrRecordNotFound
}

func (r *stubCalendarRepo) ListSchoolYears(ctx context.Context) ([]models.SchoolYear, error) {
	return append([]models.SchoolYear(nil), r.years...), nil
}

func (r *stubCalendarRepo) UpdateSchoolYear(ctx context.Context, year *models.SchoolYear) error {
	for i := range r.years {
		if r.years[i].ID == year.ID {
			r.years[i] = *year
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *stubCalendarRepo) DeleteSchoolYear(ctx context.Context, id uint) error {
	for i := range r.years {
		if r.years[i].ID == id {
			r.years = append(r.years[:i], r.years[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *stubCalendarRepo) CreateTrimester(ctx context.Context, trimester *models.Trimester) error {
	trimester.ID = uint(len(r.trimesters) + 1)
	r.trimesters = append(r.trimesters, *trimester)
	return nil
}

func (r *stubCalendarRepo) GetTrimester(ctx context.Context, id uint) (models.Trimester, error) {
	for _, trimester := range r.trimesters {
		if trimester.ID == id {
			return r.withPeriods(trimester), nil
		}
	}
	return models.Trimester{}, gorm.ErrRecordNotFound
}

func (r *stubCalendarRepo) ListTrimesters(ctx context.Context, schoolYearID uint) ([]models.Trimester, error) {
	var out []models.Trimester
	for _, trimester := range r.trimesters {
		if trimester.SchoolYearID == schoolYearID {
			out = append(out, r.withPeriods(trimester))
		}
	}
	return out, nil
}

func (r *stubCalendarRepo) UpdateTrimester(ctx context.Context, trimester *models.Trimester) error {
	for i := range r.trimesters {
		if r.trimesters[i].ID == trimester.ID {
			r.trimesters[i] = *trimester
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *stubCalendarRepo) DeleteTrimester(ctx context.Context, id uint) error {
	for i := range r.trimesters {
		if r.trimesters[i].ID == id {
			r.trimesters = append(r.trimesters[:i], r.trimesters[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *stubCalendarRepo) CreatePeriod(ctx context.Context, period *models.Period) error {
	period.ID = uint(len(r.periods) + 1)
	r.periods = append(r.periods, *period)
	return nil
}

func (r *stubCalendarRepo) GetPeriod(ctx context.Context, id uint) (models.Period, error) {
	for _, period := range r.periods {
		if period.ID == id {
			return period, nil
		}
	}
	return models.Period{}, gorm.ErrRecordNotFound
}

func (r *stubCalendarRepo) UpdatePeriod(ctx context.Context, period *models.Period) error {
	for i := range r.periods {
		if r.periods[i].ID == period.ID {
			r.periods[i] = *period
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *stubCalendarRepo) DeletePeriod(ctx context.Context, id uint) error {
	for i := range r.periods {
		if r.periods[i].ID == id {
			r.periods = append(r.periods[:i], r.periods[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *stubCalendarRepo) withPeriods(trimester models.Trimester) models.Trimester {
	trimester.Periods = nil
	for _, period := range r.periods {
		if period.TrimesterID == trimester.ID {
			trimester.Periods = append(trimester.Periods, period)
		}
	}
	sort.Slice(trimester.Periods, func(i, j int) bool {
		return trimester.Periods[i].Position < trimester.Periods[j].Position
	})
	return trimester
}

type stubScoreRepo struct {
	coursework []models.CourseworkScore
	exams      []models.ExamScore
}

func (r *stubScoreRepo) CreateCoursework(ctx context.Context, score *models.CourseworkScore) error {
	score.ID = uint(len(r.coursework) + 1)
	r.coursework = append(r.coursework, *score)
	return nil
}

func (r *stubScoreRepo) ListCoursework(ctx context.Context, studentID, subjectID, periodID uint) ([]models.CourseworkScore, error) {
	var out []models.CourseworkScore
	for _, score := range r.coursework {
		if score.StudentID == studentID && score.SubjectID == subjectID && score.PeriodID == periodID {
			out = append(out, score)
		}
	}
	return out, nil
}

func (r *stubScoreRepo) UpdateCoursework(ctx context.Context, score *models.CourseworkScore) error {
	for i := range r.coursework {
		if r.coursework[i].ID == score.ID {
			r.coursework[i] = *score
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *stubScoreRepo) DeleteCoursework(ctx context.Context, id uint) error {
	for i := range r.coursework {
		if r.coursework[i].ID == id {
			r.coursework = append(r.coursework[:i], r.coursework[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *stubScoreRepo) CreateExam(ctx context.Context, score *models.ExamScore) error {
	score.ID = uint(len(r.exams) + 1)
	r.exams = append(r.exams, *score)
	return nil
}

func (r *stubScoreRepo) FirstExam(ctx context.Context, studentID, subjectID, trimesterID uint) (models.ExamScore, error) {
	for _, score := range r.exams {
		if score.StudentID == studentID && score.SubjectID == subjectID && score.TrimesterID == trimesterID {
			return score, nil
		}
	}
	return models.ExamScore{}, gorm.ErrRecordNotFound
}

func (r *stubScoreRepo) UpdateExam(ctx context.Context, score *models.ExamScore) error {
	for i := range r.exams {
		if r.exams[i].ID == score.ID {
			r.exams[i] = *score
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *stubScoreRepo) DeleteExam(ctx context.Context, id uint) error {
	for i := range r.exams {
		if r.exams[i].ID == id {
			r.exams = append(r.exams[:i], r.exams[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

type stubGradeRepo struct {
	trimesterGrades []models.TrimesterGrade
	annualGrades    []models.AnnualGrade
}

func (r *stubGradeRepo) FindTrimesterGrade(ctx context.Context, studentID, subjectID, trimesterID uint) (models.TrimesterGrade, error) {
	for _, grade := range r.trimesterGrades {
		if grade.StudentID == studentID && grade.SubjectID == subjectID && grade.TrimesterID == trimesterID {
			return grade, nil
		}
	}
	return models.TrimesterGrade{}, gorm.ErrRecordNotFound
}

func (r *stubGradeRepo) UpsertTrimesterGrade(ctx context.Context, grade *models.TrimesterGrade) error {
	for i := range r.trimesterGrades {
		existing := &r.trimesterGrades[i]
		if existing.StudentID == grade.StudentID && existing.SubjectID == grade.SubjectID && existing.TrimesterID == grade.TrimesterID {
			grade.ID = existing.ID
			*existing = *grade
			return nil
		}
	}
	grade.ID = uint(len(r.trimesterGrades) + 1)
	r.trimesterGrades = append(r.trimesterGrades, *grade)
	return nil
}

func (r *stubGradeRepo) ListTrimesterGrades(ctx context.Context, studentID, trimesterID uint) ([]models.TrimesterGrade, error) {
	var out []models.TrimesterGrade
	for _, grade := range r.trimesterGrades {
		if grade.StudentID == studentID && grade.TrimesterID == trimesterID {
			out = append(out, grade)
		}
	}
	return out, nil
}

func (r *stubGradeRepo) FindAnnualGrade(ctx context.Context, studentID, subjectID, schoolYearID uint) (models.AnnualGrade, error) {
	for _, grade := range r.annualGrades {
		if grade.StudentID == studentID && grade.SubjectID == subjectID && grade.SchoolYearID == schoolYearID {
			return grade, nil
		}
	}
	return models.AnnualGrade{}, gorm.ErrRecordNotFound
}

func (r *stubGradeRepo) UpsertAnnualGrade(ctx context.Context, grade *models.AnnualGrade) error {
	for i := range r.annualGrades {
		existing := &r.annualGrades[i]
		if existing.StudentID == grade.StudentID && existing.SubjectID == grade.SubjectID && existing.SchoolYearID == grade.SchoolYearID {
			grade.ID = existing.ID
			grade.AutoPromoted = existing.AutoPromoted
			grade.NextClassID = existing.NextClassID
			grade.NextSubdivision = existing.NextSubdivision
			*existing = *grade
			return nil
		}
	}
	grade.ID = uint(len(r.annualGrades) + 1)
	r.annualGrades = append(r.annualGrades, *grade)
	return nil
}

func (r *stubGradeRepo) ListAnnualGrades(ctx context.Context, studentID, schoolYearID uint) ([]models.AnnualGrade, error) {
	var out []models.AnnualGrade
	for _, grade := range r.annualGrades {
		if grade.StudentID == studentID && grade.SchoolYearID == schoolYearID {
			out = append(out, grade)
		}
	}
	return out, nil
}

func (r *stubGradeRepo) StampPromotion(ctx context.Context, studentID, subjectID, schoolYearID uint, nextClassID uint, nextSubdivision string) error {
	for i := range r.annualGrades {
		grade := &r.annualGrades[i]
		if grade.StudentID == studentID && grade.SubjectID == subjectID && grade.SchoolYearID == schoolYearID {
			grade.AutoPromoted = true
			grade.NextClassID = &nextClassID
			grade.NextSubdivision = nextSubdivision
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

type stubNotificationRepo struct {
	notifications []models.Notification
}

func (r *stubNotificationRepo) Create(ctx context.Context, notification *models.Notification) error {
	notification.ID = uint(len(r.notifications) + 1)
	r.notifications = append(r.notifications, *notification)
	return nil
}

func (r *stubNotificationRepo) ListByUser(ctx context.Context, userID uint, limit, offset int) ([]models.Notification, error) {
	var out []models.Notification
	for _, notification := range r.notifications {
		if notification.UserID == userID {
			out = append(out, notification)
		}
	}
	return out, nil
}

func (r *stubNotificationRepo) MarkRead(ctx context.Context, id, userID uint) (models.Notification, error) {
	for i := range r.notifications {
		if r.notifications[i].ID == id && r.notifications[i].UserID == userID {
			r.notifications[i].Read = true
			return r.notifications[i], nil
		}
	}
	return models.Notification{}, gorm.ErrRecordNotFound
}

func (r *stubNotificationRepo) MarkAllRead(ctx context.Context, userID uint, kind models.NotificationKind) (int64, error) {
	var marked int64
	for i := range r.notifications {
		n := &r.notifications[i]
		if n.UserID != userID || n.Read {
			continue
		}
		if kind != "" && n.Kind != kind {
			continue
		}
		n.Read = true
		marked++
	}
	return marked, nil
}

type stubUserRepo struct {
	users  []models.User
	nextID uint
}

func (r *stubUserRepo) Create(ctx context.Context, user *models.User) error {
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	r.nextID++
	user.ID = r.nextID
	r.users = append(r.users, *user)
	return nil
}

func (r *stubUserRepo) GetByID(ctx context.Context, id uint) (models.User, error) {
	for _, user := range r.users {
		if user.ID == id {
			return user, nil
		}
	}
	return models.User{}, gorm.ErrRecordNotFound
}

func (r *stubUserRepo) GetByEmail(ctx context.Context, email string) (models.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			return user, nil
		}
	}
	return models.User{}, gorm.ErrRecordNotFound
}

func (r *stubUserRepo) List(ctx context.Context, role models.Role) ([]models.User, error) {
	var out []models.User
	for _, user := range r.users {
		if role == "" || user.Role == role {
			out = append(out, user)
		}
	}
	return out, nil
}

func (r *stubUserRepo) Update(ctx context.Context, user *models.User) error {
	for i := range r.users {
		if r.users[i].ID == user.ID {
			r.users[i] = *user
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *stubUserRepo) Delete(ctx context.Context, id uint) error {
	for i := range r.users {
		if r.users[i].ID == id {
			r.users = append(r.users[:i], r.users[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *stubUserRepo) ReplaceChildren(ctx context.Context, parent *models.User, children []models.Student) error {
	for i := range r.users {
		if r.users[i].ID == parent.ID {
			r.users[i].Children = children
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

type stubTokenRepo struct {
	tokens []models.AuthToken
	users  *stubUserRepo
}

func (r *stubTokenRepo) Create(ctx context.Context, token *models.AuthToken) error {
	for _, existing := range r.tokens {
		if existing.ID == token.ID {
			return gorm.ErrDuplicatedKey
		}
	}
	r.tokens = append(r.tokens, *token)
	return nil
}

func (r *stubTokenRepo) Get(ctx context.Context, id string) (models.AuthToken, error) {
	for _, token := range r.tokens {
		if token.ID == id {
			if r.users != nil {
				if user, err := r.users.GetByID(ctx, token.UserID); err == nil {
					token.User = &user
				}
			}
			return token, nil
		}
	}
	return models.AuthToken{}, gorm.ErrRecordNotFound
}

func (r *stubTokenRepo) Delete(ctx context.Context, id string) error {
	for i := range r.tokens {
		if r.tokens[i].ID == id {
			r.tokens = append(r.tokens[:i], r.tokens[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *stubTokenRepo) DeleteByUser(ctx context.Context, userID uint) error {
	var kept []models.AuthToken
	for _, token := range r.tokens {
		if token.UserID != userID {
			kept = append(kept, token)
		}
	}
	r.tokens = kept
	return nil
}
