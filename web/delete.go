package web

import (
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"
	"github.com/mkuhn/scribble/core"
)

func deletePost(w http.ResponseWriter, req *http.Request, ctx *context, params httprouter.Params) error {

	id, err := strconv.Atoi(params.ByName("id"))
	if err != nil {
		return core.ErrNotFound
	}

	if err := ctx.db.DeletePost(id); err != nil {
		return err
	}

	ctx.Success("Post deleted")
	ctx.SeeOther("/")
	return nil
}
