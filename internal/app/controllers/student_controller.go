package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/hostelpg/internal/app/models"
	"github.com/yigit/hostelpg/internal/app/models/dto"
	"github.com/yigit/hostelpg/internal/app/services"
	"github.com/yigit/hostelpg/internal/middleware"
	"github.com/yigit/hostelpg/internal/pkg/helpers"
)

// StudentController handles staff management of student accounts
type StudentController struct {
	studentService services.StudentService
}

// NewStudentController creates a new StudentController
func NewStudentController(studentService services.StudentService) *StudentController {
	return &StudentController{
		studentService: studentService,
	}
}

func studentFilter(ctx *gin.Context) (models.StudentFilter, bool) {
	page := helpers.ParsePageParams(ctx)
	filter := models.StudentFilter{
		Search:       helpers.QueryString(ctx, "search"),
		Course:       helpers.QueryString(ctx, "course"),
		AcademicYear: helpers.QueryString(ctx, "year"),
		Limit:        page.Limit,
		Offset:       page.Offset,
	}

	var ok bool
	if filter.Verified, ok = queryBool(ctx, "verified"); !ok {
		return filter, false
	}
	if filter.Active, ok = queryBool(ctx, "active"); !ok {
		return filter, false
	}
	return filter, true
}

// GetStudents lists students matching the filters
// @Summary List students
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param search query string false "Matches name, email or student ID"
// @Param course query string false "Course"
// @Param year query string false "Academic year"
// @Param verified query bool false "Verified flag"
// @Param active query bool false "Active flag"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} dto.APIResponse{data=[]models.Student} "Students; count is the total match count"
// @Router /admin/students [get]
func (c *StudentController) GetStudents(ctx *gin.Context) {
	filter, ok := studentFilter(ctx)
	if !ok {
		return
	}

	students, total, err := c.studentService.List(ctx.Request.Context(), filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewListResponse(students, total))
}

// GetStudent returns a student with their allotments, bookings and reviews
// @Summary Get student activity
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student row ID"
// @Success 200 {object} dto.APIResponse{data=models.StudentActivity} "Student with activity"
// @Failure 404 {object} dto.APIResponse "Student not found"
// @Router /admin/students/{id} [get]
func (c *StudentController) GetStudent(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}

	activity, err := c.studentService.Activity(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(activity, ""))
}

// GetStudentBookings lists a student's bookings of both types
// @Summary Student bookings
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student row ID"
// @Success 200 {object} dto.APIResponse{data=[]models.Booking} "Bookings"
// @Failure 404 {object} dto.APIResponse "Student not found"
// @Router /admin/students/{id}/bookings [get]
func (c *StudentController) GetStudentBookings(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}

	bookings, err := c.studentService.Bookings(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewListResponse(bookings, len(bookings)))
}

// UpdateStudent edits a student record
// @Summary Update student
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student row ID"
// @Param request body dto.AdminUpdateStudentRequest true "Fields to update"
// @Success 200 {object} dto.APIResponse{data=models.Student} "Student updated"
// @Failure 400 {object} dto.APIResponse "No valid fields to update"
// @Failure 404 {object} dto.APIResponse "Student not found"
// @Failure 409 {object} dto.APIResponse "Email already registered"
// @Router /admin/students/{id} [put]
func (c *StudentController) UpdateStudent(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.AdminUpdateStudentRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	student, err := c.studentService.Update(ctx.Request.Context(), actorFrom(ctx), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(student, "Student updated successfully"))
}

// DeleteStudent removes a student without bookings
// @Summary Delete student
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student row ID"
// @Success 200 {object} dto.APIResponse "Student deleted"
// @Failure 404 {object} dto.APIResponse "Student not found"
// @Failure 409 {object} dto.APIResponse "Student has bookings or allotments"
// @Router /admin/students/{id} [delete]
func (c *StudentController) DeleteStudent(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.studentService.Delete(ctx.Request.Context(), actorFrom(ctx), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil, "Student deleted successfully"))
}

// GetStudentStats aggregates students by course and year
// @Summary Student statistics
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=models.StudentStats} "Statistics"
// @Router /admin/students/stats/overview [get]
func (c *StudentController) GetStudentStats(ctx *gin.Context) {
	stats, err := c.studentService.Stats(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(stats, ""))
}

// ExportStudents downloads the matching students as a spreadsheet
// @Summary Export students
// @Tags admin
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param search query string false "Matches name, email or student ID"
// @Param course query string false "Course"
// @Param year query string false "Academic year"
// @Success 200 {file} file "students.xlsx"
// @Router /admin/export/students.xlsx [get]
func (c *StudentController) ExportStudents(ctx *gin.Context) {
	filter, ok := studentFilter(ctx)
	if !ok {
		return
	}

	data, err := c.studentService.Export(ctx.Request.Context(), filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	sendWorkbook(ctx, "students.xlsx", data)
}
