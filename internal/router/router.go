// Package router wires the HTTP API: sessions, the per-user collections,
// uploads, the assignment generator, the chatbot and the internal endpoints.
package router

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/patric-chuzhbe/studydesk/internal/assignmentgen"
	"github.com/patric-chuzhbe/studydesk/internal/auth"
	"github.com/patric-chuzhbe/studydesk/internal/gzippedhttp"
	"github.com/patric-chuzhbe/studydesk/internal/logger"
	"github.com/patric-chuzhbe/studydesk/internal/metrics"
	"github.com/patric-chuzhbe/studydesk/internal/models"
	"github.com/patric-chuzhbe/studydesk/internal/service"
	"github.com/patric-chuzhbe/studydesk/internal/uploads"
)

const (
	multipartMemory = 8 << 20
	maxJSONBodySize = 1 << 20

	invalidDataMessage  = "Invalid data"
	missingInputMessage = "Missing topic or file"
)

type authenticator interface {
	AuthenticateUser(h http.Handler) http.Handler
	RequireUser(h http.Handler) http.Handler
	IssueSession(response http.ResponseWriter, username string) error
	ClearSession(response http.ResponseWriter)
}

type trustedChecker interface {
	TrustedSubnetOnly(h http.Handler) http.Handler
}

type pinger interface {
	Ping(ctx context.Context) error
}

type assignmentGenerator interface {
	Generate(ctx context.Context, topic string) string
}

type bookmarkQueue interface {
	EnqueueJob(job models.Bookmark)
	Pending(username, filename string) (float64, bool)
}

type chatResponder interface {
	Respond(message string) (intent, reply string)
}

type Router struct {
	db            pinger
	auth          authenticator
	ipChecker     trustedChecker
	svc           *service.Service
	files         *uploads.Store
	generator     assignmentGenerator
	bookmarks     bookmarkQueue
	bot           chatResponder
	metrics       *metrics.Metrics
	validate      *validator.Validate
	maxUploadSize int64
}

func New(
	db pinger,
	authMiddleware authenticator,
	ipChecker trustedChecker,
	svc *service.Service,
	files *uploads.Store,
	generator assignmentGenerator,
	bookmarks bookmarkQueue,
	bot chatResponder,
	maxUploadSize int64,
) *chi.Mux {
	r := &Router{
		db:            db,
		auth:          authMiddleware,
		ipChecker:     ipChecker,
		svc:           svc,
		files:         files,
		generator:     generator,
		bookmarks:     bookmarks,
		bot:           bot,
		metrics:       metrics.New(),
		validate:      newValidator(),
		maxUploadSize: maxUploadSize,
	}

	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(logger.WithLoggingHTTPMiddleware)
	router.Use(r.metrics.Middleware)
	router.Use(gzippedhttp.DecompressRequest)
	router.Use(middleware.Compress(5, "application/json", "text/plain"))

	router.Get("/ping", r.GetPing)
	router.Handle("/metrics", promhttp.Handler())

	router.Route("/api", func(api chi.Router) {
		api.With(r.ipChecker.TrustedSubnetOnly).Get("/internal/stats", r.GetApiinternalstats)

		api.Group(func(sessions chi.Router) {
			sessions.Use(r.auth.AuthenticateUser)

			sessions.Post("/signup", r.PostApisignup)
			sessions.Post("/login", r.PostApilogin)
			sessions.Post("/logout", r.PostApilogout)

			sessions.Group(func(private chi.Router) {
				private.Use(r.auth.RequireUser)

				private.Get("/dashboard", r.GetApidashboard)
				private.Get("/notifications", r.GetApinotifications)

				private.Get("/reminders", r.GetApireminders)
				private.Post("/reminders", r.PostApireminders)
				private.Delete("/reminders", r.DeleteApireminders)
				private.Delete("/reminders/{id}", r.DeleteApiremindersID)

				private.Get("/assignments", r.GetApiassignments)
				private.Post("/assignments", r.PostApiassignments)
				private.Patch("/assignments", r.PatchApiassignments)
				private.Delete("/assignments", r.DeleteApiassignments)
				private.Patch("/assignments/{id}", r.PatchApiassignmentsID)
				private.Delete("/assignments/{id}", r.DeleteApiassignmentsID)

				private.Get("/notes", r.GetApinotes)
				private.Post("/notes", r.PostApinotes)
				private.Delete("/notes/{index}", r.DeleteApinotesIndex)

				private.Get("/timetable", r.GetApitimetable)
				private.Put("/timetable", r.PutApitimetable)
				private.Get("/subjects", r.GetApisubjects)
				private.Put("/subjects", r.PutApisubjects)
				private.Get("/spotify", r.GetApispotify)
				private.Put("/spotify", r.PutApispotify)

				private.Post("/bookmarks", r.PostApibookmarks)
				private.Get("/bookmarks/{filename}", r.GetApibookmarksFilename)

				private.Get("/uploads", r.GetApiuploads)
				private.Post("/uploads", r.PostApiuploads)
				private.Get("/uploads/{filename}", r.GetApiuploadsFilename)
				private.Delete("/uploads/{filename}", r.DeleteApiuploadsFilename)

				private.Post("/generate-assignment", r.PostApigenerateassignment)
				private.Post("/chatbot", r.PostApichatbot)
			})
		})
	})

	return router
}

func (r *Router) GetPing(response http.ResponseWriter, request *http.Request) {
	if err := r.db.Ping(request.Context()); err != nil {
		logger.Log.Errorw("storage ping failed", "error", err)
		response.WriteHeader(http.StatusInternalServerError)
		return
	}
	response.WriteHeader(http.StatusOK)
}

func (r *Router) GetApiinternalstats(response http.ResponseWriter, request *http.Request) {
	stats, err := r.svc.InternalStats(request.Context())
	if err != nil {
		r.internalError(response, "r.svc.InternalStats()", err)
		return
	}
	writeJSON(response, http.StatusOK, stats)
}

func (r *Router) PostApisignup(response http.ResponseWriter, request *http.Request) {
	var body models.CredentialsRequest
	if !r.decodeJSON(response, request, &body) {
		return
	}

	err := r.svc.Signup(request.Context(), body.Username, body.Password)
	if errors.Is(err, service.ErrUserExists) {
		writeError(response, http.StatusConflict, "Username already exists")
		return
	}
	if errors.Is(err, service.ErrPasswordTooLong) {
		writeError(response, http.StatusBadRequest, invalidDataMessage)
		return
	}
	if err != nil {
		r.internalError(response, "r.svc.Signup()", err)
		return
	}

	writeJSON(response, http.StatusCreated, models.MessageResponse{Message: "User registered successfully"})
}

func (r *Router) PostApilogin(response http.ResponseWriter, request *http.Request) {
	var body models.CredentialsRequest
	if !r.decodeJSON(response, request, &body) {
		return
	}

	username := strings.TrimSpace(body.Username)
	err := r.svc.Login(request.Context(), username, body.Password)
	if errors.Is(err, service.ErrInvalidCredentials) {
		writeError(response, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if err != nil {
		r.internalError(response, "r.svc.Login()", err)
		return
	}

	if err := r.auth.IssueSession(response, username); err != nil {
		r.internalError(response, "r.auth.IssueSession()", err)
		return
	}

	writeJSON(response, http.StatusOK, models.MessageResponse{Message: "Logged in"})
}

func (r *Router) PostApilogout(response http.ResponseWriter, request *http.Request) {
	r.auth.ClearSession(response)
	writeJSON(response, http.StatusOK, models.MessageResponse{Message: "Logged out"})
}

func (r *Router) GetApidashboard(response http.ResponseWriter, request *http.Request) {
	username := currentUser(request)

	files, err := r.files.List(username)
	if err != nil {
		r.internalError(response, "r.files.List()", err)
		return
	}

	dashboard, err := r.svc.Dashboard(request.Context(), username, files)
	if err != nil {
		r.internalError(response, "r.svc.Dashboard()", err)
		return
	}
	writeJSON(response, http.StatusOK, dashboard)
}

func (r *Router) GetApinotifications(response http.ResponseWriter, request *http.Request) {
	feed, err := r.svc.Notifications(request.Context(), currentUser(request))
	if err != nil {
		r.internalError(response, "r.svc.Notifications()", err)
		return
	}
	writeJSON(response, http.StatusOK, feed)
}

func (r *Router) GetApireminders(response http.ResponseWriter, request *http.Request) {
	reminders, err := r.svc.Reminders(request.Context(), currentUser(request))
	if err != nil {
		r.internalError(response, "r.svc.Reminders()", err)
		return
	}
	writeJSON(response, http.StatusOK, reminders)
}

func (r *Router) PostApireminders(response http.ResponseWriter, request *http.Request) {
	var body models.AddReminderRequest
	if !r.decodeJSON(response, request, &body) {
		return
	}

	reminder, err := r.svc.AddReminder(request.Context(), currentUser(request), body.Title, body.Date, body.Time)
	if err != nil {
		r.internalError(response, "r.svc.AddReminder()", err)
		return
	}
	writeJSON(response, http.StatusCreated, reminder)
}

func (r *Router) DeleteApireminders(response http.ResponseWriter, request *http.Request) {
	var body models.DeleteReminderRequest
	if !r.decodeJSON(response, request, &body) {
		return
	}

	if _, err := r.svc.DeleteReminder(request.Context(), currentUser(request), body.Title); err != nil {
		r.internalError(response, "r.svc.DeleteReminder()", err)
		return
	}
	writeJSON(response, http.StatusOK, models.MessageResponse{Message: "Reminder deleted"})
}

func (r *Router) DeleteApiremindersID(response http.ResponseWriter, request *http.Request) {
	err := r.svc.DeleteReminderByID(request.Context(), currentUser(request), chi.URLParam(request, "id"))
	if r.writeServiceError(response, "r.svc.DeleteReminderByID()", err) {
		return
	}
	writeJSON(response, http.StatusOK, models.MessageResponse{Message: "Reminder deleted"})
}

func (r *Router) GetApiassignments(response http.ResponseWriter, request *http.Request) {
	assignments, err := r.svc.Assignments(request.Context(), currentUser(request))
	if err != nil {
		r.internalError(response, "r.svc.Assignments()", err)
		return
	}
	writeJSON(response, http.StatusOK, assignments)
}

func (r *Router) PostApiassignments(response http.ResponseWriter, request *http.Request) {
	var body models.AddAssignmentRequest
	if !r.decodeJSON(response, request, &body) {
		return
	}

	assignment, err := r.svc.AddAssignment(
		request.Context(),
		currentUser(request),
		body.Subject,
		body.DueDate,
		body.Description,
	)
	if err != nil {
		r.internalError(response, "r.svc.AddAssignment()", err)
		return
	}
	writeJSON(response, http.StatusCreated, assignment)
}

func (r *Router) PatchApiassignments(response http.ResponseWriter, request *http.Request) {
	var body models.UpdateAssignmentRequest
	if !r.decodeJSON(response, request, &body) {
		return
	}

	err := r.svc.UpdateAssignmentCompletion(request.Context(), currentUser(request), body.Subject, body.Completed)
	if err != nil {
		r.internalError(response, "r.svc.UpdateAssignmentCompletion()", err)
		return
	}
	writeJSON(response, http.StatusOK, models.MessageResponse{Message: "Assignment status updated"})
}

func (r *Router) DeleteApiassignments(response http.ResponseWriter, request *http.Request) {
	var body models.DeleteAssignmentRequest
	if !r.decodeJSON(response, request, &body) {
		return
	}

	if _, err := r.svc.DeleteAssignment(request.Context(), currentUser(request), body.Subject); err != nil {
		r.internalError(response, "r.svc.DeleteAssignment()", err)
		return
	}
	writeJSON(response, http.StatusOK, models.MessageResponse{Message: "Assignment deleted successfully"})
}

func (r *Router) PatchApiassignmentsID(response http.ResponseWriter, request *http.Request) {
	var body models.UpdateAssignmentRequest
	if !r.decodeJSON(response, request, &body) {
		return
	}

	err := r.svc.UpdateAssignmentCompletionByID(
		request.Context(),
		currentUser(request),
		chi.URLParam(request, "id"),
		body.Completed,
	)
	if r.writeServiceError(response, "r.svc.UpdateAssignmentCompletionByID()", err) {
		return
	}
	writeJSON(response, http.StatusOK, models.MessageResponse{Message: "Assignment status updated"})
}

func (r *Router) DeleteApiassignmentsID(response http.ResponseWriter, request *http.Request) {
	err := r.svc.DeleteAssignmentByID(request.Context(), currentUser(request), chi.URLParam(request, "id"))
	if r.writeServiceError(response, "r.svc.DeleteAssignmentByID()", err) {
		return
	}
	writeJSON(response, http.StatusOK, models.MessageResponse{Message: "Assignment deleted successfully"})
}

func (r *Router) GetApinotes(response http.ResponseWriter, request *http.Request) {
	notes, err := r.svc.Notes(request.Context(), currentUser(request))
	if err != nil {
		r.internalError(response, "r.svc.Notes()", err)
		return
	}
	writeJSON(response, http.StatusOK, notes)
}

func (r *Router) PostApinotes(response http.ResponseWriter, request *http.Request) {
	var body models.SaveNoteRequest
	if !r.decodeJSON(response, request, &body) {
		return
	}

	note, err := r.svc.SaveNote(
		request.Context(),
		currentUser(request),
		models.Note{Title: body.Title, Content: body.Content, Date: body.Date},
		body.Index,
	)
	if r.writeServiceError(response, "r.svc.SaveNote()", err) {
		return
	}

	status := http.StatusCreated
	if body.Index != nil {
		status = http.StatusOK
	}
	writeJSON(response, status, note)
}

func (r *Router) DeleteApinotesIndex(response http.ResponseWriter, request *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(request, "index"))
	if err != nil {
		writeError(response, http.StatusBadRequest, service.ErrInvalidIndex.Error())
		return
	}

	err = r.svc.DeleteNote(request.Context(), currentUser(request), index)
	if r.writeServiceError(response, "r.svc.DeleteNote()", err) {
		return
	}
	writeJSON(response, http.StatusOK, models.MessageResponse{Message: "Note deleted"})
}

func (r *Router) GetApitimetable(response http.ResponseWriter, request *http.Request) {
	timetable, err := r.svc.Timetable(request.Context(), currentUser(request))
	if err != nil {
		r.internalError(response, "r.svc.Timetable()", err)
		return
	}
	writeJSON(response, http.StatusOK, timetable)
}

func (r *Router) PutApitimetable(response http.ResponseWriter, request *http.Request) {
	var body models.TimetableRequest
	if !r.decodeJSON(response, request, &body) {
		return
	}
	if string(body.Timetable) == "null" {
		writeError(response, http.StatusBadRequest, invalidDataMessage)
		return
	}

	if err := r.svc.SaveTimetable(request.Context(), currentUser(request), body.Timetable); err != nil {
		r.internalError(response, "r.svc.SaveTimetable()", err)
		return
	}
	writeJSON(response, http.StatusOK, models.MessageResponse{Message: "Timetable saved successfully"})
}

func (r *Router) GetApisubjects(response http.ResponseWriter, request *http.Request) {
	subjects, err := r.svc.Subjects(request.Context(), currentUser(request))
	if err != nil {
		r.internalError(response, "r.svc.Subjects()", err)
		return
	}
	writeJSON(response, http.StatusOK, subjects)
}

func (r *Router) PutApisubjects(response http.ResponseWriter, request *http.Request) {
	var body models.SubjectsRequest
	if !r.decodeJSON(response, request, &body) {
		return
	}
	if body.Subjects == nil {
		body.Subjects = []string{}
	}

	if err := r.svc.SaveSubjects(request.Context(), currentUser(request), body.Subjects); err != nil {
		r.internalError(response, "r.svc.SaveSubjects()", err)
		return
	}
	writeJSON(response, http.StatusOK, models.SubjectsResponse{Message: "Subjects updated", Subjects: body.Subjects})
}

func (r *Router) GetApispotify(response http.ResponseWriter, request *http.Request) {
	url, err := r.svc.SpotifyURL(request.Context(), currentUser(request))
	if err != nil {
		r.internalError(response, "r.svc.SpotifyURL()", err)
		return
	}
	writeJSON(response, http.StatusOK, models.SpotifyResponse{SpotifyURL: url})
}

func (r *Router) PutApispotify(response http.ResponseWriter, request *http.Request) {
	var body models.SpotifyRequest
	if !r.decodeJSON(response, request, &body) {
		return
	}

	url, err := r.svc.SaveSpotifyURL(request.Context(), currentUser(request), strings.TrimSpace(body.SpotifyURL))
	if err != nil {
		r.internalError(response, "r.svc.SaveSpotifyURL()", err)
		return
	}
	writeJSON(response, http.StatusOK, models.SpotifyResponse{SpotifyURL: url})
}

func (r *Router) PostApibookmarks(response http.ResponseWriter, request *http.Request) {
	var body models.SaveBookmarkRequest
	if !r.decodeJSON(response, request, &body) {
		return
	}

	r.bookmarks.EnqueueJob(models.Bookmark{
		Username: currentUser(request),
		Filename: body.Filename,
		Position: body.Position,
	})
	writeJSON(response, http.StatusAccepted, models.MessageResponse{Message: "Bookmark saved"})
}

func (r *Router) GetApibookmarksFilename(response http.ResponseWriter, request *http.Request) {
	username := currentUser(request)
	filename := chi.URLParam(request, "filename")

	if position, ok := r.bookmarks.Pending(username, filename); ok {
		writeJSON(response, http.StatusOK, models.BookmarkResponse{Position: position})
		return
	}

	position, err := r.svc.Bookmark(request.Context(), username, filename)
	if err != nil {
		r.internalError(response, "r.svc.Bookmark()", err)
		return
	}
	writeJSON(response, http.StatusOK, models.BookmarkResponse{Position: position})
}

func (r *Router) GetApiuploads(response http.ResponseWriter, request *http.Request) {
	files, err := r.files.List(currentUser(request))
	if err != nil {
		r.internalError(response, "r.files.List()", err)
		return
	}
	writeJSON(response, http.StatusOK, files)
}

func (r *Router) PostApiuploads(response http.ResponseWriter, request *http.Request) {
	request.Body = http.MaxBytesReader(response, request.Body, r.maxUploadSize)

	stored, err := r.saveFormFile(request)
	if r.writeUploadError(response, "r.saveFormFile()", err) {
		return
	}
	writeJSON(response, http.StatusCreated, models.UploadResponse{Filename: stored})
}

func (r *Router) GetApiuploadsFilename(response http.ResponseWriter, request *http.Request) {
	file, contentType, err := r.files.Open(currentUser(request), chi.URLParam(request, "filename"))
	if r.writeUploadError(response, "r.files.Open()", err) {
		return
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		r.internalError(response, "file.Stat()", err)
		return
	}

	response.Header().Set("Content-Type", contentType)
	http.ServeContent(response, request, info.Name(), info.ModTime(), file)
}

func (r *Router) DeleteApiuploadsFilename(response http.ResponseWriter, request *http.Request) {
	err := r.files.Delete(currentUser(request), chi.URLParam(request, "filename"))
	if r.writeUploadError(response, "r.files.Delete()", err) {
		return
	}
	writeJSON(response, http.StatusOK, models.MessageResponse{Message: "File deleted"})
}

// PostApigenerateassignment stores the handwriting sample and answers with a
// generated .docx assignment on the submitted topic.
func (r *Router) PostApigenerateassignment(response http.ResponseWriter, request *http.Request) {
	request.Body = http.MaxBytesReader(response, request.Body, r.maxUploadSize)

	if err := request.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(response, http.StatusRequestEntityTooLarge, "File too large")
			return
		}
		writeError(response, http.StatusBadRequest, missingInputMessage)
		return
	}
	topic := strings.TrimSpace(request.FormValue("topic"))
	if topic == "" {
		writeError(response, http.StatusBadRequest, missingInputMessage)
		return
	}

	_, err := r.saveFormFile(request)
	if errors.Is(err, uploads.ErrNoFile) {
		writeError(response, http.StatusBadRequest, missingInputMessage)
		return
	}
	if r.writeUploadError(response, "r.saveFormFile()", err) {
		return
	}

	text := r.generator.Generate(request.Context(), topic)
	result := "ok"
	if strings.HasPrefix(text, assignmentgen.ErrorPrefix) {
		result = "error"
	}
	r.metrics.GenerationsTotal.WithLabelValues(result).Inc()

	document, err := assignmentgen.BuildDocx(topic, text)
	if err != nil {
		r.internalError(response, "assignmentgen.BuildDocx()", err)
		return
	}

	response.Header().Set("Content-Type", assignmentgen.DocxContentType)
	response.Header().Set(
		"Content-Disposition",
		`attachment; filename="`+uploads.SanitizeFilename(assignmentgen.Filename(topic))+`"`,
	)
	response.WriteHeader(http.StatusOK)
	if _, err := response.Write(document); err != nil {
		logger.Log.Debugln("Error calling the `response.Write()`: ", zap.Error(err))
	}
}

func (r *Router) PostApichatbot(response http.ResponseWriter, request *http.Request) {
	var body models.ChatRequest
	if !r.decodeJSON(response, request, &body) {
		return
	}

	intent, reply := r.bot.Respond(body.Message)
	if intent != "" {
		r.metrics.ChatIntentsTotal.WithLabelValues(intent).Inc()
	}
	writeJSON(response, http.StatusOK, models.ChatResponse{Response: reply})
}

func (r *Router) saveFormFile(request *http.Request) (string, error) {
	file, header, err := request.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return "", uploads.ErrNoFile
	}
	if err != nil {
		return "", err
	}
	defer file.Close()

	if header.Filename == "" {
		return "", uploads.ErrNoFile
	}

	return r.files.Save(currentUser(request), header.Filename, file, uploads.DocumentExtensions)
}

func currentUser(request *http.Request) string {
	username, _ := auth.UsernameFromContext(request.Context())
	return username
}

// decodeJSON reads and validates the request body into dst, answering 400 on failure.
func (r *Router) decodeJSON(response http.ResponseWriter, request *http.Request, dst interface{}) bool {
	request.Body = http.MaxBytesReader(response, request.Body, maxJSONBodySize)
	err := json.NewDecoder(request.Body).Decode(dst)
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeError(response, http.StatusRequestEntityTooLarge, "Request body too large")
		return false
	}
	if err != nil && !errors.Is(err, io.EOF) {
		logger.Log.Debugln("Error calling the `json.NewDecoder().Decode()`: ", zap.Error(err))
		writeError(response, http.StatusBadRequest, invalidDataMessage)
		return false
	}
	if err := r.validate.Struct(dst); err != nil {
		logger.Log.Debugln("Error calling the `r.validate.Struct()`: ", zap.Error(err))
		writeError(response, http.StatusBadRequest, invalidDataMessage)
		return false
	}

	return true
}

// newValidator returns a validator that also knows the "username" tag: a name
// that can own an upload directory.
func newValidator() *validator.Validate {
	validate := validator.New()
	if err := validate.RegisterValidation("username", func(fieldLevel validator.FieldLevel) bool {
		return uploads.ValidUsername(strings.TrimSpace(fieldLevel.Field().String()))
	}); err != nil {
		panic(err)
	}

	return validate
}

// writeServiceError maps service errors to responses. It reports whether err was handled.
func (r *Router) writeServiceError(response http.ResponseWriter, call string, err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, service.ErrInvalidIndex), errors.Is(err, service.ErrTitleRequired):
		writeError(response, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrNotFound):
		writeError(response, http.StatusNotFound, err.Error())
	default:
		r.internalError(response, call, err)
	}

	return true
}

// writeUploadError maps upload errors to responses. It reports whether err was handled.
func (r *Router) writeUploadError(response http.ResponseWriter, call string, err error) bool {
	var tooLarge *http.MaxBytesError
	switch {
	case err == nil:
		return false
	case errors.As(err, &tooLarge):
		writeError(response, http.StatusRequestEntityTooLarge, "File too large")
	case errors.Is(err, uploads.ErrNoFile):
		writeError(response, http.StatusBadRequest, "No file selected")
	case errors.Is(err, uploads.ErrFileTypeNotAllowed):
		writeError(response, http.StatusBadRequest, "File type not allowed")
	case errors.Is(err, uploads.ErrInvalidFilename):
		writeError(response, http.StatusBadRequest, "Invalid filename")
	case errors.Is(err, uploads.ErrFileNotFound):
		writeError(response, http.StatusNotFound, "File not found")
	default:
		r.internalError(response, call, err)
	}

	return true
}

func (r *Router) internalError(response http.ResponseWriter, call string, err error) {
	logger.Log.Errorw("request failed", "call", call, "error", err)
	writeError(response, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
}

func writeError(response http.ResponseWriter, status int, message string) {
	writeJSON(response, status, models.ErrorResponse{Error: message})
}

func writeJSON(response http.ResponseWriter, status int, body interface{}) {
	response.Header().Set("Content-Type", "application/json")
	response.WriteHeader(status)
	if err := json.NewEncoder(response).Encode(body); err != nil {
		logger.Log.Debugln("Error calling the `json.NewEncoder().Encode()`: ", zap.Error(err))
	}
}
