package teacher

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/classpad/classpad/internal/auth"
	"github.com/classpad/classpad/internal/controller"
	"github.com/classpad/classpad/internal/dto"
	"github.com/classpad/classpad/internal/service"
)

// TeacherController serves the dashboard's teacher surface: class
// linking, assignments and the quiz builder.
type TeacherController struct {
	assignmentSvc service.AssignmentService
	quizSvc       service.TeacherQuizService
}

func NewTeacherController(assignmentSvc service.AssignmentService, quizSvc service.TeacherQuizService) *TeacherController {
	return &TeacherController{assignmentSvc: assignmentSvc, quizSvc: quizSvc}
}

// RegisterRoutes mounts the teacher routes on an authenticated group.
func (c *TeacherController) RegisterRoutes(api *gin.RouterGroup) {
	api.POST("/classes/link", c.LinkClass)

	assignments := api.Group("/assignments")
	assignments.POST("", c.CreateAssignment)
	assignments.GET("", c.ListAssignments)
	assignments.PATCH("/:assignment_id", c.UpdateAssignment)
	assignments.GET("/:assignment_id/submissions", c.ListSubmissions)
	assignments.POST("/:assignment_id/remind", c.Remind)
	assignments.POST("/:assignment_id/export_csv", c.ExportCSV)

	quiz := api.Group("/quiz/teacher")
	quiz.POST("/quizzes", c.CreateQuiz)
	quiz.GET("/quizzes", c.ListQuizzes)
	quiz.GET("/quizzes/:quiz_id", c.GetQuizDetail)
	quiz.PATCH("/quizzes/:quiz_id", c.UpdateQuiz)
	quiz.POST("/questions", c.AddQuestion)
	quiz.PATCH("/questions/:question_id", c.UpdateQuestion)
	quiz.DELETE("/questions/:question_id", c.DeleteQuestion)
}

func (c *TeacherController) LinkClass(ctx *gin.Context) {
	var req dto.LinkClassRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}
	class, err := c.assignmentSvc.LinkClass(auth.UserID(ctx), auth.UserName(ctx), req)
	if err != nil {
		log.Error().Err(err).Int64("teacher", auth.UserID(ctx)).Msg("Failed to link class")
		controller.JSONError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, class)
}

func (c *TeacherController) CreateAssignment(ctx *gin.Context) {
	var req dto.CreateAssignmentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}
	assignment, err := c.assignmentSvc.CreateAssignment(auth.UserID(ctx), req)
	if err != nil {
		controller.JSONError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, assignment)
}

func (c *TeacherController) ListAssignments(ctx *gin.Context) {
	classID := ctx.Query("class_id")
	if classID == "" {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "class_id is required"})
		return
	}
	assignments, err := c.assignmentSvc.ListAssignments(auth.UserID(ctx), classID)
	if err != nil {
		controller.JSONError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, assignments)
}

func (c *TeacherController) UpdateAssignment(ctx *gin.Context) {
	var req dto.UpdateAssignmentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}
	assignment, err := c.assignmentSvc.UpdateAssignment(auth.UserID(ctx), ctx.Param("assignment_id"), req)
	if err != nil {
		controller.JSONError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, assignment)
}

func (c *TeacherController) ListSubmissions(ctx *gin.Context) {
	submissions, err := c.assignmentSvc.ListSubmissions(auth.UserID(ctx), ctx.Param("assignment_id"))
	if err != nil {
		controller.JSONError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, submissions)
}

func (c *TeacherController) Remind(ctx *gin.Context) {
	if err := c.assignmentSvc.Remind(auth.UserID(ctx), ctx.Param("assignment_id")); err != nil {
		controller.JSONError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.OKResponse{OK: true})
}

func (c *TeacherController) ExportCSV(ctx *gin.Context) {
	path, err := c.assignmentSvc.ExportCSV(auth.UserID(ctx), ctx.Param("assignment_id"))
	if err != nil {
		controller.JSONError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.ExportResponse{CSVPath: path})
}

func (c *TeacherController) CreateQuiz(ctx *gin.Context) {
	var req dto.CreateQuizRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}
	quiz, err := c.quizSvc.CreateQuiz(auth.UserID(ctx), req)
	if err != nil {
		controller.JSONError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, quiz)
}

func (c *TeacherController) ListQuizzes(ctx *gin.Context) {
	classID := ctx.Query("class_id")
	if classID == "" {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "class_id is required"})
		return
	}
	quizzes, err := c.quizSvc.ListQuizzes(auth.UserID(ctx), classID)
	if err != nil {
		controller.JSONError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"quizzes": quizzes})
}

func (c *TeacherController) GetQuizDetail(ctx *gin.Context) {
	detail, err := c.quizSvc.GetQuizDetail(auth.UserID(ctx), ctx.Param("quiz_id"))
	if err != nil {
		controller.JSONError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, detail)
}

func (c *TeacherController) UpdateQuiz(ctx *gin.Context) {
	var req dto.UpdateQuizRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}
	quiz, err := c.quizSvc.UpdateQuiz(auth.UserID(ctx), ctx.Param("quiz_id"), req)
	if err != nil {
		controller.JSONError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, quiz)
}

func (c *TeacherController) AddQuestion(ctx *gin.Context) {
	var req dto.CreateQuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}
	question, err := c.quizSvc.AddQuestion(auth.UserID(ctx), req)
	if err != nil {
		controller.JSONError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, question)
}

func (c *TeacherController) UpdateQuestion(ctx *gin.Context) {
	var req dto.UpdateQuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}
	question, err := c.quizSvc.UpdateQuestion(auth.UserID(ctx), ctx.Param("question_id"), req)
	if err != nil {
		controller.JSONError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, question)
}

func (c *TeacherController) DeleteQuestion(ctx *gin.Context) {
	if err := c.quizSvc.DeleteQuestion(auth.UserID(ctx), ctx.Param("question_id")); err != nil {
		controller.JSONError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.OKResponse{OK: true})
}
