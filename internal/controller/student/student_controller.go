package student

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/classpad/classpad/internal/auth"
	"github.com/classpad/classpad/internal/controller"
	"github.com/classpad/classpad/internal/dto"
	"github.com/classpad/classpad/internal/files"
	"github.com/classpad/classpad/internal/repository"
	"github.com/classpad/classpad/internal/service"
)

// StudentController serves the mini-app's student surface: courses,
// assignments, submissions and quiz taking.
type StudentController struct {
	studentSvc  service.StudentService
	quizSvc     service.StudentQuizService
	submissions repository.SubmissionRepository
	files       *files.Store
}

func NewStudentController(
	studentSvc service.StudentService,
	quizSvc service.StudentQuizService,
	submissions repository.SubmissionRepository,
	fileStore *files.Store,
) *StudentController {
	return &StudentController{
		studentSvc:  studentSvc,
		quizSvc:     quizSvc,
		submissions: submissions,
		files:       fileStore,
	}
}

// RegisterRoutes mounts the student routes on an authenticated group.
func (c *StudentController) RegisterRoutes(api *gin.RouterGroup) {
	student := api.Group("/student")
	student.GET("/courses", c.Courses)
	student.POST("/enroll", c.Enroll)
	student.GET("/assignments", c.Assignments)
	student.GET("/assignments/:assignment_id", c.AssignmentDetail)
	student.POST("/assignments/:assignment_id/submit", c.Submit)

	quiz := api.Group("/quiz/student")
	quiz.GET("/quizzes", c.ListQuizzes)
	quiz.GET("/quizzes/:quiz_id", c.GetQuiz)
	quiz.POST("/attempts", c.StartAttempt)
	quiz.POST("/attempts/:attempt_id/answer", c.Answer)
	quiz.POST("/attempts/:attempt_id/complete", c.CompleteAttempt)
	quiz.GET("/attempts/:attempt_id", c.GetAttempt)

	api.GET("/files/:file_id", c.GetFile)
}

func (c *StudentController) Courses(ctx *gin.Context) {
	courses, err := c.studentSvc.Courses(auth.UserID(ctx), auth.UserName(ctx))
	if err != nil {
		controller.JSONError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, courses)
}

func (c *StudentController) Enroll(ctx *gin.Context) {
	var req dto.EnrollRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}
	resp, err := c.studentSvc.Enroll(auth.UserID(ctx), auth.UserName(ctx), req.CourseCode)
	if err != nil {
		controller.JSONError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

func (c *StudentController) Assignments(ctx *gin.Context) {
	assignments, err := c.studentSvc.Assignments(auth.UserID(ctx))
	if err != nil {
		controller.JSONError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, assignments)
}

func (c *StudentController) AssignmentDetail(ctx *gin.Context) {
	detail, err := c.studentSvc.AssignmentDetail(auth.UserID(ctx), ctx.Param("assignment_id"))
	if err != nil {
		controller.JSONError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, detail)
}

// Submit accepts a multipart form with an optional text field and an
// optional file part.
func (c *StudentController) Submit(ctx *gin.Context) {
	text := ctx.PostForm("text")
	upload, err := ctx.FormFile("file")
	if err != nil && err != http.ErrMissingFile {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}
	resp, err := c.studentSvc.Submit(auth.UserID(ctx), ctx.Param("assignment_id"), text, upload)
	if err != nil {
		controller.JSONError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

func (c *StudentController) ListQuizzes(ctx *gin.Context) {
	quizzes, err := c.quizSvc.ListQuizzes(auth.UserID(ctx))
	if err != nil {
		controller.JSONError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"quizzes": quizzes})
}

func (c *StudentController) GetQuiz(ctx *gin.Context) {
	detail, err := c.quizSvc.GetQuiz(auth.UserID(ctx), ctx.Param("quiz_id"))
	if err != nil {
		controller.JSONError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, detail)
}

func (c *StudentController) StartAttempt(ctx *gin.Context) {
	var req dto.StartAttemptRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}
	resp, err := c.quizSvc.StartAttempt(auth.UserID(ctx), req.QuizID)
	if err != nil {
		controller.JSONError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

func (c *StudentController) Answer(ctx *gin.Context) {
	var req dto.AnswerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}
	attempt, err := c.quizSvc.Answer(auth.UserID(ctx), ctx.Param("attempt_id"), req.QuestionID, req.Answer)
	if err != nil {
		controller.JSONError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, attempt)
}

func (c *StudentController) CompleteAttempt(ctx *gin.Context) {
	resp, err := c.quizSvc.CompleteAttempt(auth.UserID(ctx), ctx.Param("attempt_id"))
	if err != nil {
		controller.JSONError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

func (c *StudentController) GetAttempt(ctx *gin.Context) {
	resp, err := c.quizSvc.GetAttempt(auth.UserID(ctx), ctx.Param("attempt_id"))
	if err != nil {
		controller.JSONError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// GetFile streams an uploaded submission file back to the mini-app.
func (c *StudentController) GetFile(ctx *gin.Context) {
	meta, err := c.submissions.GetFileMeta(ctx.Param("file_id"))
	if err != nil {
		controller.JSONError(ctx, err)
		return
	}
	if meta.LocalPath == "" {
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "file is not stored locally"})
		return
	}
	f, err := c.files.Open(meta.LocalPath)
	if err != nil {
		log.Error().Err(err).Str("path", meta.LocalPath).Msg("Failed to open stored file")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "failed to open file"})
		return
	}
	defer f.Close()
	ctx.Header("Content-Disposition", `attachment; filename="`+meta.Filename+`"`)
	ctx.Header("Content-Type", meta.Mime)
	if _, err := io.Copy(ctx.Writer, f); err != nil {
		log.Warn().Err(err).Msg("File stream interrupted")
	}
}
