package controllers

import (
	"io/fs"
	"net/http"
	"os"
	"path"
	"strings"

	"github.com/jacktracker/jacktracker/internal/app"
	"github.com/labstack/echo/v5"
)

// FilesController serves finished downloads at the filePath carried by
// complete events.
type FilesController struct {
	route string
	fsys  fs.FS
}

func NewFilesController(app *app.Context) *FilesController {
	return &FilesController{
		route: strings.TrimSuffix(app.Config.Download.Route, "/"),
		fsys:  os.DirFS(app.Config.Download.OutDir),
	}
}

// Serve maps the request path onto the download directory. URL.Path is
// already unescaped once; decoding again would break names containing '%'.
func (ctrl *FilesController) Serve(c *echo.Context) error {
	rel := strings.TrimPrefix(c.Request().URL.Path, ctrl.route)
	name := strings.TrimPrefix(path.Clean("/"+rel), "/")
	if name == "" || !fs.ValidPath(name) {
		return c.JSON(http.StatusNotFound, errorResponse{Error: "NotFound", Message: "file not found"})
	}

	info, err := fs.Stat(ctrl.fsys, name)
	if err != nil || info.IsDir() {
		return c.JSON(http.StatusNotFound, errorResponse{Error: "NotFound", Message: "file not found"})
	}

	return c.FileFS(name, ctrl.fsys)
}
