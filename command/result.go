package command

import "github.com/dynacharting/core/internal/dcerr"

// Result is what every command handler returns: ok iff every precondition held,
// createdId set for creation commands, err set (and ok false) otherwise.
type Result struct {
	Ok        bool
	Err       *dcerr.Error
	CreatedId dcerr.Id
}

func ok(id dcerr.Id) Result       { return Result{Ok: true, CreatedId: id} }
func fail(err *dcerr.Error) Result { return Result{Ok: false, Err: err} }
