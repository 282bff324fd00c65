package server

import (
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/atikulmunna/logdash/internal/dashboard"
	"github.com/atikulmunna/logdash/internal/export"
	"github.com/atikulmunna/logdash/internal/sorting"
	"github.com/gin-gonic/gin"
)

// maxUploadBytes bounds a multipart log upload.
const maxUploadBytes = 32 << 20

// listEntries applies the query's filter, optional sort and optional page,
// then returns the current window. The filter in the query is authoritative;
// the sort is kept from earlier requests unless given.
func (s *Server) listEntries(c *gin.Context) {
	var req dashboard.ViewRequest
	if err := c.ShouldBindQuery(&req.Criteria); err != nil {
		badRequest(c, err)
		return
	}

	if field := c.Query("sort"); field != "" {
		f, err := sorting.ParseField(field)
		if err != nil {
			badRequest(c, err)
			return
		}
		dir, err := sorting.ParseDirection(c.Query("dir"))
		if err != nil {
			badRequest(c, err)
			return
		}
		req.Sort = &sorting.State{Field: f, Direction: dir}
	}

	if p := c.Query("page"); p != "" {
		page, err := strconv.Atoi(p)
		if err != nil || page < 1 {
			badRequest(c, fmt.Errorf("invalid page %q", p))
			return
		}
		req.Page = page
	}

	if err := s.dash.Apply(req); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, s.dash.View())
}

func (s *Server) toggleSort(c *gin.Context) {
	f, err := sorting.ParseField(c.Param("field"))
	if err != nil {
		badRequest(c, err)
		return
	}
	s.dash.SortBy(f)
	c.JSON(http.StatusOK, s.dash.View())
}

func (s *Server) nextPage(c *gin.Context) {
	s.dash.NextPage()
	c.JSON(http.StatusOK, s.dash.View())
}

func (s *Server) prevPage(c *gin.Context) {
	s.dash.PrevPage()
	c.JSON(http.StatusOK, s.dash.View())
}

func (s *Server) sources(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"sources": s.dash.Sources()})
}

func (s *Server) stats(c *gin.Context) {
	c.JSON(http.StatusOK, s.dash.Stats())
}

func (s *Server) liveStats(c *gin.Context) {
	if s.aggregator == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "live tail is not enabled"})
		return
	}
	c.JSON(http.StatusOK, s.aggregator.Snapshot())
}

func (s *Server) refresh(c *gin.Context) {
	if err := s.dash.Reload(c.Request.Context()); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, s.dash.Stats())
}

func (s *Server) toggleAutoRefresh(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"enabled": s.dash.ToggleAutoRefresh()})
}

// ---------------------------------------------------------------------------
// Selection
// ---------------------------------------------------------------------------

func (s *Server) selection(c *gin.Context) {
	sel := s.dash.Selection()
	c.JSON(http.StatusOK, gin.H{"ids": sel.IDs(), "count": sel.Size()})
}

func (s *Server) toggleSelection(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	selected := s.dash.Selection().Toggle(id)
	c.JSON(http.StatusOK, gin.H{"id": id, "selected": selected, "count": s.dash.Selection().Size()})
}

func (s *Server) selectPage(c *gin.Context) {
	n := s.dash.SelectPage()
	c.JSON(http.StatusOK, gin.H{"added": n, "count": s.dash.Selection().Size()})
}

func (s *Server) clearSelection(c *gin.Context) {
	s.dash.Selection().Clear()
	c.Status(http.StatusNoContent)
}

type deleteFailure struct {
	ID    int64  `json:"id"`
	Error string `json:"error"`
}

// deleteSelected reports every settled outcome. A partial failure answers
// 207 so the caller can tell it from a clean run.
func (s *Server) deleteSelected(c *gin.Context) {
	res, err := s.dash.DeleteSelected(c.Request.Context())
	if len(res.Results) == 0 && err != nil {
		fail(c, err)
		return
	}

	failed := make([]deleteFailure, 0)
	for _, f := range res.Failed() {
		failed = append(failed, deleteFailure{ID: f.ID, Error: f.Err.Error()})
	}
	deleted := res.Succeeded()
	if deleted == nil {
		deleted = []int64{}
	}
	body := gin.H{"deleted": deleted, "failed": failed, "selected": s.dash.Selection().Size()}

	status := http.StatusOK
	if !res.OK() {
		status = http.StatusMultiStatus
	}
	if err != nil {
		_ = c.Error(err)
		body["error"] = err.Error()
	}
	c.JSON(status, body)
}

// ---------------------------------------------------------------------------
// Export
// ---------------------------------------------------------------------------

func (s *Server) exportFiltered(c *gin.Context) {
	s.export(c, false)
}

func (s *Server) exportSelected(c *gin.Context) {
	s.export(c, true)
}

func (s *Server) export(c *gin.Context, selected bool) {
	f, err := export.ParseFormat(c.Query("format"))
	if err != nil {
		badRequest(c, err)
		return
	}

	var (
		out  []byte
		name string
	)
	if selected {
		out, name, err = s.dash.ExportSelected(f)
	} else {
		out, name, err = s.dash.ExportFiltered(f)
	}
	if err != nil {
		fail(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, name))
	c.Data(http.StatusOK, export.ContentType(f), out)
}

// ---------------------------------------------------------------------------
// Files, analysis and search
// ---------------------------------------------------------------------------

func (s *Server) listFiles(c *gin.Context) {
	c.JSON(http.StatusOK, s.dash.Store().Files())
}

func (s *Server) getFile(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	f, err := s.dash.File(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, f)
}

func (s *Server) uploadFile(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes)
	fh, err := c.FormFile("file")
	if err != nil {
		badRequest(c, fmt.Errorf("multipart field \"file\" is required: %w", err))
		return
	}
	src, err := fh.Open()
	if err != nil {
		badRequest(c, err)
		return
	}
	defer src.Close()

	content, err := io.ReadAll(src)
	if err != nil {
		badRequest(c, err)
		return
	}

	created, err := s.dash.Upload(c.Request.Context(), fh.Filename, content)
	if err != nil && created.ID == 0 {
		fail(c, err)
		return
	}
	if err != nil {
		_ = c.Error(err)
	}
	c.JSON(http.StatusCreated, created)
}

func (s *Server) analyzeFile(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	updated, err := s.dash.Analyze(c.Request.Context(), id)
	if err != nil && updated.ID == 0 {
		fail(c, err)
		return
	}
	if err != nil {
		_ = c.Error(err)
	}
	c.JSON(http.StatusOK, updated)
}

func (s *Server) search(c *gin.Context) {
	var (
		topK      int
		threshold float64
		err       error
	)
	if v := c.Query("top_k"); v != "" {
		if topK, err = strconv.Atoi(v); err != nil {
			badRequest(c, fmt.Errorf("invalid top_k %q", v))
			return
		}
	}
	if v := c.Query("similarity_threshold"); v != "" {
		if threshold, err = strconv.ParseFloat(v, 64); err != nil {
			badRequest(c, fmt.Errorf("invalid similarity_threshold %q", v))
			return
		}
	}

	res, err := s.dash.Search(c.Request.Context(), c.Query("query"), topK, threshold)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func idParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequest(c, fmt.Errorf("invalid id %q", c.Param("id")))
		return 0, false
	}
	return id, true
}
