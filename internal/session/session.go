package session

import (
	"encoding/json"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const (
	keyStudent = "student"
	keyTeacher = "teacher"
	keyDraw    = "exam_questions"
)

// Student is the identity a student logs in with plus the exam start time.
type Student struct {
	StudentID string `json:"studentId"`
	Name      string `json:"name"`
	OrgID     uint   `json:"orgId"`
	CourseID  uint   `json:"courseId"`
	TimingID  uint   `json:"timingId"`
	Month     int    `json:"month"`
	StartedAt int64  `json:"startedAt"` // unix seconds
}

func (s *Student) StartTime() time.Time {
	return time.Unix(s.StartedAt, 0)
}

// Elapsed is how long the exam has been running at now.
func (s *Student) Elapsed(now time.Time) time.Duration {
	return now.Sub(s.StartTime())
}

type Teacher struct {
	TeacherID uint   `json:"teacherId"`
	FullName  string `json:"fullName"`
	OrgID     uint   `json:"orgId"`
	OrgName   string `json:"orgName"`
}

// Values are stored as JSON strings so any backend can encode them.
func load(c *gin.Context, key string, dst interface{}) bool {
	raw, ok := sessions.Default(c).Get(key).(string)
	if !ok || raw == "" {
		return false
	}
	return json.Unmarshal([]byte(raw), dst) == nil
}

func store(c *gin.Context, key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	s := sessions.Default(c)
	s.Set(key, string(data))
	return s.Save()
}

func GetStudent(c *gin.Context) (*Student, bool) {
	var st Student
	if !load(c, keyStudent, &st) || st.StudentID == "" {
		return nil, false
	}
	return &st, true
}

// SetStudent starts a fresh exam session, dropping any earlier draw.
func SetStudent(c *gin.Context, st *Student) error {
	sessions.Default(c).Delete(keyDraw)
	return store(c, keyStudent, st)
}

func GetTeacher(c *gin.Context) (*Teacher, bool) {
	var t Teacher
	if !load(c, keyTeacher, &t) || t.TeacherID == 0 {
		return nil, false
	}
	return &t, true
}

func SetTeacher(c *gin.Context, t *Teacher) error {
	return store(c, keyTeacher, t)
}

// GetDraw returns the pinned question ids of the running exam.
func GetDraw(c *gin.Context) ([]uint, bool) {
	var ids []uint
	if !load(c, keyDraw, &ids) || len(ids) == 0 {
		return nil, false
	}
	return ids, true
}

func SetDraw(c *gin.Context, ids []uint) error {
	return store(c, keyDraw, ids)
}

// Clear destroys the whole browser session.
func Clear(c *gin.Context) error {
	s := sessions.Default(c)
	s.Clear()
	s.Options(sessions.Options{Path: "/", MaxAge: -1})
	return s.Save()
}
