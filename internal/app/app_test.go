package app

import (
	"encoding/json"
	"exam_system_backend/internal/export"
	"exam_system_backend/internal/model"
	"exam_system_backend/internal/testutil"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type harness struct {
	t      *testing.T
	db     *gorm.DB
	tenant *testutil.Tenant
	server *httptest.Server

	mu  sync.Mutex
	now time.Time
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	db := testutil.OpenDB(t)
	tenant := testutil.Seed(t, db)

	a, err := New(testutil.Config(), db, nil)
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	h := &harness{t: t, db: db, tenant: tenant, now: testutil.Now}
	a.SetClock(h.clock)

	h.server = httptest.NewServer(a.Router)
	t.Cleanup(h.server.Close)
	return h
}

func (h *harness) clock() time.Time {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.now
}

func (h *harness) advance(d time.Duration) {
	h.mu.Lock()
	h.now = h.now.Add(d)
	h.mu.Unlock()
}

// browser returns a client that keeps cookies and does not follow redirects.
func (h *harness) browser() *http.Client {
	jar, err := cookiejar.New(nil)
	if err != nil {
		h.t.Fatal(err)
	}
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func (h *harness) do(c *http.Client, method, path string, form url.Values) (int, http.Header, string) {
	h.t.Helper()
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req, err := http.NewRequest(method, h.server.URL+path, body)
	if err != nil {
		h.t.Fatal(err)
	}
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	resp, err := c.Do(req)
	if err != nil {
		h.t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	data, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, resp.Header, string(data)
}

func (h *harness) studentForm(id string) url.Values {
	return url.Values{
		"student_id":   {id},
		"student_name": {"Student " + id},
		"course_id":    {fmt.Sprint(h.tenant.Course2.ID)},
		"timing_id":    {fmt.Sprint(h.tenant.Timing.ID)},
		"month":        {"1"},
	}
}

func TestStudentExamFlow(t *testing.T) {
	h := newHarness(t)
	c := h.browser()

	status, _, body := h.do(c, http.MethodGet, "/student/", nil)
	if status != http.StatusOK || !strings.Contains(body, "Organization A") {
		t.Fatalf("login page = %d", status)
	}

	status, hdr, _ := h.do(c, http.MethodPost, "/student/", h.studentForm("S100"))
	if status != http.StatusFound || hdr.Get("Location") != "/student/exam" {
		t.Fatalf("login = %d %q", status, hdr.Get("Location"))
	}

	status, _, body = h.do(c, http.MethodGet, "/student/exam", nil)
	if status != http.StatusOK {
		t.Fatalf("exam page = %d", status)
	}
	for _, q := range h.tenant.Questions {
		if !strings.Contains(body, fmt.Sprintf("answer_%d", q.ID)) {
			t.Fatalf("exam page misses question %d", q.ID)
		}
	}

	// reloading keeps the same questions in the same order
	_, _, again := h.do(c, http.MethodGet, "/student/exam", nil)
	if got, want := questionOrder(again), questionOrder(body); got != want {
		t.Errorf("order after reload = %s, want %s", got, want)
	}

	answers := url.Values{}
	for _, q := range h.tenant.Questions[:4] {
		answers.Set(fmt.Sprintf("answer_%d", q.ID), q.CorrectAnswer)
	}
	status, _, body = h.do(c, http.MethodPost, "/student/submit", answers)
	if status != http.StatusOK {
		t.Fatalf("submit = %d", status)
	}
	if !strings.Contains(body, "Grade: A") || !strings.Contains(body, "80.00%") {
		t.Fatalf("result page does not show 4/5: %s", body)
	}

	var exams []model.Exam
	h.db.Find(&exams)
	if len(exams) != 1 || exams[0].CorrectAnswers != 4 || exams[0].TotalQuestions != 5 {
		t.Fatalf("stored exams = %+v", exams)
	}

	// the session is gone after submitting
	status, hdr, _ = h.do(c, http.MethodGet, "/student/exam", nil)
	if status != http.StatusFound || hdr.Get("Location") != "/student/" {
		t.Fatalf("exam after submit = %d %q", status, hdr.Get("Location"))
	}

	status, _, body = h.do(h.browser(), http.MethodPost, "/student/", h.studentForm("S100"))
	if status != http.StatusConflict || !strings.Contains(body, "Re-attempt is not allowed") {
		t.Fatalf("second attempt = %d", status)
	}
}

var answerField = regexp.MustCompile(`name="answer_(\d+)"`)

// questionOrder lists question ids in page order, once each.
func questionOrder(page string) string {
	seen := map[string]bool{}
	var ids []string
	for _, m := range answerField.FindAllStringSubmatch(page, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			ids = append(ids, m[1])
		}
	}
	return strings.Join(ids, ",")
}

func TestExpiredExamIsSubmittedAsTimedOut(t *testing.T) {
	h := newHarness(t)
	c := h.browser()

	h.do(c, http.MethodPost, "/student/", h.studentForm("S200"))
	if status, _, _ := h.do(c, http.MethodGet, "/student/exam", nil); status != http.StatusOK {
		t.Fatalf("exam page = %d", status)
	}

	h.advance(30*time.Minute + time.Second)

	status, hdr, _ := h.do(c, http.MethodGet, "/student/exam", nil)
	if status != http.StatusFound || hdr.Get("Location") != "/student/submit?timeout=1" {
		t.Fatalf("expired exam = %d %q", status, hdr.Get("Location"))
	}

	status, _, body := h.do(c, http.MethodGet, "/student/submit?timeout=1", nil)
	if status != http.StatusOK {
		t.Fatalf("timeout submit = %d", status)
	}
	if !strings.Contains(body, "0.00%") || !strings.Contains(body, "Grade: F") {
		t.Fatalf("result page does not show an empty submission: %s", body)
	}

	var exam model.Exam
	if err := h.db.Where("student_id = ?", "S200").First(&exam).Error; err != nil {
		t.Fatal(err)
	}
	if !exam.TimedOut || exam.CorrectAnswers != 0 || exam.TotalQuestions != len(h.tenant.Questions) {
		t.Fatalf("stored exam = %+v", exam)
	}
	var answers int64
	h.db.Model(&model.ExamAnswer{}).Where("exam_id = ?", exam.ID).Count(&answers)
	if answers != int64(len(h.tenant.Questions)) {
		t.Errorf("answer rows = %d", answers)
	}
}

func TestLoginPostDuringExamKeepsRunningExam(t *testing.T) {
	h := newHarness(t)
	c := h.browser()

	h.do(c, http.MethodPost, "/student/", h.studentForm("S1"))
	_, _, first := h.do(c, http.MethodGet, "/student/exam", nil)

	h.advance(10 * time.Minute)

	// switching identity or restarting the timer mid-exam is refused
	status, hdr, _ := h.do(c, http.MethodPost, "/student/", h.studentForm("S2"))
	if status != http.StatusFound || hdr.Get("Location") != "/student/exam" {
		t.Fatalf("second login post = %d %q", status, hdr.Get("Location"))
	}

	_, _, again := h.do(c, http.MethodGet, "/student/exam", nil)
	if got, want := questionOrder(again), questionOrder(first); got != want {
		t.Errorf("draw after second login = %s, want %s", got, want)
	}
	if !strings.Contains(again, `data-remaining="1200"`) {
		t.Errorf("timer restarted: want 1200 seconds remaining")
	}

	status, _, _ = h.do(c, http.MethodPost, "/student/submit", url.Values{})
	if status != http.StatusOK {
		t.Fatalf("submit = %d", status)
	}
	var exams []model.Exam
	h.db.Find(&exams)
	if len(exams) != 1 || exams[0].StudentID != "S1" {
		t.Fatalf("stored exams = %+v", exams)
	}
}

func TestDuplicateSubmitClearsSession(t *testing.T) {
	h := newHarness(t)
	first, second := h.browser(), h.browser()

	for _, c := range []*http.Client{first, second} {
		h.do(c, http.MethodPost, "/student/", h.studentForm("S300"))
		h.do(c, http.MethodGet, "/student/exam", nil)
	}

	if status, _, _ := h.do(first, http.MethodPost, "/student/submit", url.Values{}); status != http.StatusOK {
		t.Fatalf("first submit = %d", status)
	}
	status, _, body := h.do(second, http.MethodPost, "/student/submit", url.Values{})
	if status != http.StatusConflict || !strings.Contains(body, "Re-attempt is not allowed") {
		t.Fatalf("second submit = %d", status)
	}

	status, hdr, _ := h.do(second, http.MethodGet, "/student/exam", nil)
	if status != http.StatusFound || hdr.Get("Location") != "/student/" {
		t.Fatalf("exam after rejected submit = %d %q", status, hdr.Get("Location"))
	}
}

func TestStudentLoginRejections(t *testing.T) {
	h := newHarness(t)

	for _, path := range []string{"/student/?org=NOPE", "/student/?org=" + testutil.InactiveOrgCode} {
		status, _, body := h.do(h.browser(), http.MethodGet, path, nil)
		if status != http.StatusNotFound || !strings.Contains(body, "organization is inactive") {
			t.Errorf("%s = %d", path, status)
		}
	}

	form := h.studentForm("S7")
	form.Set("course_id", fmt.Sprint(h.tenant.Course1.ID))
	status, _, body := h.do(h.browser(), http.MethodPost, "/student/", form)
	if status != http.StatusUnprocessableEntity || !strings.Contains(body, "No questions available") {
		t.Errorf("empty course = %d", status)
	}

	form = h.studentForm("")
	status, _, _ = h.do(h.browser(), http.MethodPost, "/student/", form)
	if status != http.StatusBadRequest {
		t.Errorf("missing student id = %d", status)
	}

	status, hdr, _ := h.do(h.browser(), http.MethodGet, "/student/exam", nil)
	if status != http.StatusFound || hdr.Get("Location") != "/student/" {
		t.Errorf("anonymous exam = %d %q", status, hdr.Get("Location"))
	}
}

func TestTeacherPortal(t *testing.T) {
	h := newHarness(t)
	c := h.browser()

	status, _, body := h.do(c, http.MethodPost, "/teacher/", url.Values{"username": {testutil.TeacherUsername}, "password": {"wrong"}})
	if status != http.StatusOK || !strings.Contains(body, "Invalid username or password") {
		t.Fatalf("bad login = %d", status)
	}

	status, hdr, _ := h.do(c, http.MethodPost, "/teacher/", url.Values{"username": {testutil.TeacherUsername}, "password": {testutil.TeacherPassword}})
	if status != http.StatusFound || hdr.Get("Location") != "/teacher/dashboard" {
		t.Fatalf("login = %d %q", status, hdr.Get("Location"))
	}

	status, _, body = h.do(c, http.MethodGet, "/teacher/dashboard", nil)
	if status != http.StatusOK || !strings.Contains(body, "Teacher One") {
		t.Fatalf("dashboard = %d", status)
	}

	add := url.Values{
		"action":         {"add"},
		"course_id":      {fmt.Sprint(h.tenant.Course1.ID)},
		"month":          {"2"},
		"question_text":  {"What does CPU stand for?"},
		"option_a":       {"Central Processing Unit"},
		"option_b":       {"Computer Personal Unit"},
		"option_c":       {"Central Program Utility"},
		"option_d":       {"Core Processing Unit"},
		"correct_answer": {"a"},
	}
	status, _, body = h.do(c, http.MethodPost, "/teacher/questions", add)
	if status != http.StatusOK || !strings.Contains(body, "Question added successfully") {
		t.Fatalf("add question = %d", status)
	}
	var q model.Question
	if err := h.db.Where("text = ?", "What does CPU stand for?").First(&q).Error; err != nil || q.CorrectAnswer != "A" {
		t.Fatalf("stored question = %+v, %v", q, err)
	}

	// another teacher's course is refused
	add.Set("course_id", fmt.Sprint(h.tenant.OtherCourse.ID))
	status, _, _ = h.do(c, http.MethodPost, "/teacher/questions", add)
	if status != http.StatusBadRequest {
		t.Errorf("foreign course = %d", status)
	}

	status, hdr, body = h.do(c, http.MethodGet, "/teacher/results/export?month=1", nil)
	if status != http.StatusOK {
		t.Fatalf("export = %d", status)
	}
	if !strings.Contains(hdr.Get("Content-Disposition"), "attachment") {
		t.Errorf("Content-Disposition = %q", hdr.Get("Content-Disposition"))
	}
	if !strings.HasPrefix(body, export.Header[0]) {
		t.Errorf("csv starts with %q", body)
	}

	status, hdr, _ = h.do(c, http.MethodGet, "/teacher/logout", nil)
	if status != http.StatusFound || hdr.Get("Location") != "/teacher/" {
		t.Fatalf("logout = %d", status)
	}
	status, _, _ = h.do(c, http.MethodGet, "/teacher/dashboard", nil)
	if status != http.StatusFound {
		t.Errorf("dashboard after logout = %d", status)
	}
}

func TestTeacherAPI(t *testing.T) {
	h := newHarness(t)
	client := h.server.Client()

	login := func(password string) *http.Response {
		payload := fmt.Sprintf(`{"username":%q,"password":%q}`, testutil.TeacherUsername, password)
		resp, err := client.Post(h.server.URL+"/api/teacher/login", "application/json", strings.NewReader(payload))
		if err != nil {
			t.Fatal(err)
		}
		return resp
	}

	resp := login("nope")
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("bad login = %d", resp.StatusCode)
	}

	resp = login(testutil.TeacherPassword)
	var out struct {
		Code int `json:"code"`
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if out.Code != http.StatusOK || out.Data.Token == "" {
		t.Fatalf("login = %+v", out)
	}

	get := func(path, token string) (int, string) {
		req, _ := http.NewRequest(http.MethodGet, h.server.URL+path, nil)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		resp, err := client.Do(req)
		if err != nil {
			t.Fatal(err)
		}
		defer resp.Body.Close()
		data, _ := io.ReadAll(resp.Body)
		return resp.StatusCode, string(data)
	}

	if status, _ := get("/api/teacher/questions", ""); status != http.StatusUnauthorized {
		t.Errorf("no token = %d", status)
	}

	status, body := get("/api/teacher/questions", out.Data.Token)
	if status != http.StatusOK {
		t.Fatalf("questions = %d", status)
	}
	var list struct {
		Data []model.Question `json:"data"`
	}
	if err := json.Unmarshal([]byte(body), &list); err != nil {
		t.Fatal(err)
	}
	if len(list.Data) != len(h.tenant.Questions) {
		t.Errorf("questions = %d, want %d", len(list.Data), len(h.tenant.Questions))
	}

	status, body = get("/api/health", "")
	if status != http.StatusOK || !strings.Contains(body, `"database":"up"`) {
		t.Errorf("health = %d %s", status, body)
	}
}
