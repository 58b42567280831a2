package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/lucaspiller/exprscript"
	"github.com/lucaspiller/exprscript/internal/exprstore"
	"github.com/lucaspiller/exprscript/internal/util"
	"github.com/lucaspiller/exprscript/server/result"
	"golang.org/x/crypto/bcrypt"
)

// EndpointFunc is an HTTP handler that returns a result.Result instead of
// writing directly to the ResponseWriter, so common concerns (unauth
// delay, JSON marshaling, logging) are handled in one place by Endpoint.
type EndpointFunc func(req *http.Request) result.Result

// Endpoint adapts an EndpointFunc to an http.HandlerFunc.
func Endpoint(ep EndpointFunc) http.HandlerFunc {
	unauthTimeout := time.Second

	return func(w http.ResponseWriter, req *http.Request) {
		res := ep(req)

		if res.Status == http.StatusUnauthorized || res.Status == http.StatusForbidden {
			time.Sleep(unauthTimeout)
		}

		res.WriteResponse(w)
	}
}

func requireIDParam(req *http.Request) (uuid.UUID, error) {
	idStr := chi.URLParam(req, "id")
	if idStr == "" {
		return uuid.UUID{}, fmt.Errorf("no id in path")
	}
	return uuid.Parse(idStr)
}

// parseJSON decodes the request body as JSON into v, which must be a
// pointer.
func parseJSON(req *http.Request, v interface{}) error {
	bodyData, err := io.ReadAll(req.Body)
	if err != nil {
		return fmt.Errorf("could not read request body: %w", err)
	}

	if err := json.Unmarshal(bodyData, v); err != nil {
		return fmt.Errorf("malformed JSON in request")
	}

	return nil
}

func (srv Server) httpPostToken(req *http.Request) result.Result {
	var tokReq TokenRequest
	if err := parseJSON(req, &tokReq); err != nil {
		return result.BadRequest(err.Error(), err.Error())
	}

	if tokReq.APIKey == "" || !srv.checkAPIKey(tokReq.APIKey) {
		return result.Unauthorized("invalid API key", "rejected API key")
	}

	tok, err := generateToken([]byte(srv.cfg.TokenSecret))
	if err != nil {
		return result.InternalServerError("could not generate token: %s", err.Error())
	}

	return result.Created(TokenResponse{Token: tok}, "issued bearer token")
}

func (srv Server) httpPostLibrary(req *http.Request) result.Result {
	var libReq LibraryRequest
	if err := parseJSON(req, &libReq); err != nil {
		return result.BadRequest(err.Error(), err.Error())
	}

	if libReq.Name == "" {
		return result.BadRequest("name is required", "name is required")
	}

	// the source must at least be parseable on its own (as a series of
	// macro definitions with no calls) before it is accepted for storage.
	env := exprscript.NewEnvironment(nil)
	defer env.Destroy()
	if _, perr := exprscript.CreateWithDiagnostics(libReq.Source, env, nil); perr != nil {
		return result.BadRequest(fmt.Sprintf("library source does not parse: %s", perr.Error()), perr.FullMessage())
	}

	created, err := srv.db.Libraries().Create(req.Context(), exprstore.Library{Name: libReq.Name, Source: libReq.Source})
	if err != nil {
		if err == exprstore.ErrConstraintViolation {
			return result.Conflict("a library with that name already exists", "library '%s' already exists", libReq.Name)
		}
		return result.InternalServerError("create library: %s", err.Error())
	}

	return result.Created(libraryToResponse(created), "created library '%s'", created.Name)
}

func (srv Server) httpGetLibraries(req *http.Request) result.Result {
	libs, err := srv.db.Libraries().GetAll(req.Context())
	if err != nil {
		return result.InternalServerError("get libraries: %s", err.Error())
	}

	resp := make([]LibraryResponse, len(libs))
	for i, lib := range libs {
		resp[i] = libraryToResponse(lib)
	}
	return result.OK(resp, "got all libraries")
}

func (srv Server) httpGetLibrary(req *http.Request) result.Result {
	id, err := requireIDParam(req)
	if err != nil {
		return result.NotFound()
	}

	lib, err := srv.db.Libraries().GetByID(req.Context(), id)
	if err != nil {
		if err == exprstore.ErrNotFound {
			return result.NotFound()
		}
		return result.InternalServerError("get library: %s", err.Error())
	}

	return result.OK(libraryToResponse(lib), "got library '%s'", lib.Name)
}

func libraryToResponse(lib exprstore.Library) LibraryResponse {
	return LibraryResponse{ID: lib.ID.String(), Name: lib.Name, Source: lib.Source, Created: lib.Created}
}

func (srv Server) httpPostEnvironment(req *http.Request) result.Result {
	var envReq EnvironmentRequest
	if err := parseJSON(req, &envReq); err != nil {
		return result.BadRequest(err.Error(), err.Error())
	}

	if envReq.Name == "" {
		return result.BadRequest("name is required", "name is required")
	}

	vars := envReq.Variables
	if vars == nil {
		vars = map[string]float64{}
	}

	created, err := srv.db.Snapshots().Create(req.Context(), exprstore.Snapshot{Name: envReq.Name, Variables: vars})
	if err != nil {
		if err == exprstore.ErrConstraintViolation {
			return result.Conflict("an environment with that name already exists", "environment '%s' already exists", envReq.Name)
		}
		return result.InternalServerError("create environment: %s", err.Error())
	}

	return result.Created(snapshotToResponse(created), "created environment '%s'", created.Name)
}

func (srv Server) httpGetEnvironment(req *http.Request) result.Result {
	id, err := requireIDParam(req)
	if err != nil {
		return result.NotFound()
	}

	snap, err := srv.db.Snapshots().GetByID(req.Context(), id)
	if err != nil {
		if err == exprstore.ErrNotFound {
			return result.NotFound()
		}
		return result.InternalServerError("get environment: %s", err.Error())
	}

	return result.OK(snapshotToResponse(snap), "got environment '%s'", snap.Name)
}

func snapshotToResponse(snap exprstore.Snapshot) EnvironmentResponse {
	return EnvironmentResponse{ID: snap.ID.String(), Name: snap.Name, Variables: snap.Variables, Updated: snap.Updated}
}

// httpPostEval compiles one expression against the named environment's
// persisted variables (optionally preceded by one or more stored macro
// libraries), evaluates it, and persists the resulting variable state back
// to the environment.
func (srv Server) httpPostEval(req *http.Request) result.Result {
	id, err := requireIDParam(req)
	if err != nil {
		return result.NotFound()
	}

	snap, err := srv.db.Snapshots().GetByID(req.Context(), id)
	if err != nil {
		if err == exprstore.ErrNotFound {
			return result.NotFound()
		}
		return result.InternalServerError("get environment: %s", err.Error())
	}

	var evalReq EvalRequest
	if err := parseJSON(req, &evalReq); err != nil {
		return result.BadRequest(err.Error(), err.Error())
	}

	text, res := srv.prependLibraries(req, evalReq.Expression)
	if res != nil {
		return *res
	}

	env := exprscript.NewEnvironment(nil)
	defer env.Destroy()
	for name, val := range snap.Variables {
		env.Var(name).Value = val
	}

	expr, perr := exprscript.CreateWithDiagnostics(text, env, nil)
	if perr != nil {
		return result.BadRequest(fmt.Sprintf("expression does not parse: %s", perr.Error()), perr.FullMessage())
	}
	defer expr.Destroy()

	val := expr.Eval()

	snap.Variables = env.All()
	snap, err = srv.db.Snapshots().Update(req.Context(), snap.ID, snap)
	if err != nil {
		return result.InternalServerError("persist environment: %s", err.Error())
	}

	return result.OK(EvalResponse{Result: val, Variables: snap.Variables}, "evaluated expression against environment '%s'", snap.Name)
}

func (srv Server) prependLibraries(req *http.Request, expression string) (string, *result.Result) {
	text := expression
	// library names come from a repeated query parameter: ?library=name
	for _, name := range req.URL.Query()["library"] {
		lib, err := srv.db.Libraries().GetByName(req.Context(), name)
		if err != nil {
			if err == exprstore.ErrNotFound {
				r := result.BadRequest(fmt.Sprintf("no such library: %s", name), "no such library '%s'; known libraries: %s", name, srv.knownLibraryNames(req))
				return "", &r
			}
			r := result.InternalServerError("get library: %s", err.Error())
			return "", &r
		}
		text = lib.Source + ", " + text
	}
	return text, nil
}

// knownLibraryNames gives a human-readable listing of every stored library's
// name, for use in a "no such library" diagnostic. Lookup failures collapse
// to "(none)" rather than obscuring the original error with a second one.
func (srv Server) knownLibraryNames(req *http.Request) string {
	libs, err := srv.db.Libraries().GetAll(req.Context())
	if err != nil || len(libs) == 0 {
		return "(none)"
	}

	names := make([]string, len(libs))
	for i, lib := range libs {
		names[i] = lib.Name
	}
	return util.MakeTextList(names)
}

func checkBcryptCost(hash string) error {
	cost, err := bcrypt.Cost([]byte(hash))
	if err != nil {
		return err
	}
	if cost < bcrypt.DefaultCost {
		return fmt.Errorf("bcrypt cost %d is below the recommended minimum of %d", cost, bcrypt.DefaultCost)
	}
	return nil
}
