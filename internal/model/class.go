package model

import "strconv"

// Teacher and Student identities come from the chat platform; records are
// created lazily the first time a user acts in that role.
type Teacher struct {
	TgUserID  int64  `json:"tg_user_id"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
}

type Student struct {
	TgUserID  int64  `json:"tg_user_id"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
}

// Class is a linked group chat. Its ID is the chat id rendered as a
// string; CourseCode is the opaque token students use to self-enroll.
type Class struct {
	ClassID     string `json:"class_id"`
	Title       string `json:"title"`
	TeacherTgID int64  `json:"teacher_tg_id"`
	CourseCode  string `json:"course_code"`
	CreatedAt   string `json:"created_at"`
}

// ChatID parses the class ID back into the numeric chat id.
func (c *Class) ChatID() int64 {
	n, _ := strconv.ParseInt(c.ClassID, 10, 64)
	return n
}

// Enrollment is a (student, class) membership fact, keyed in the document
// by EnrollmentKey.
type Enrollment struct {
	StudentTgID int64  `json:"student_tg_id"`
	ClassID     string `json:"class_id"`
	EnrolledAt  string `json:"enrolled_at"`
}

func EnrollmentKey(studentTgID int64, classID string) string {
	return strconv.FormatInt(studentTgID, 10) + ":" + classID
}

func UserKey(tgUserID int64) string {
	return strconv.FormatInt(tgUserID, 10)
}
