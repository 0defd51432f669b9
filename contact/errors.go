/*
 * errors.go, part of confwater.
 *
 * Copyright 2024 Raul Mera <rmera{at}chemDOThelsinkiDOTfi>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package contact

import (
	"errors"
	"strings"

	chem "github.com/rmera/confwater"
)

type errKind int

const (
	errConfig errKind = iota
	errDegenerate
	errTraj
)

//Error is the error type of the contact package. It implements chem.Error.
//Errors in the trajectory that already implement chem.Error are not
//wrapped in an Error, but returned decorated.
type Error struct {
	message string
	kind    errKind
	deco    []string
	err     error //the wrapped error, if any
}

func (err Error) Error() string {
	msg := err.message
	if err.err != nil {
		msg += ": " + err.err.Error()
	}
	if len(err.deco) == 0 {
		return "contact: " + msg
	}
	//outermost caller first
	path := make([]string, len(err.deco))
	for i, v := range err.deco {
		path[len(path)-1-i] = v
	}
	return "contact: " + strings.Join(path, ": ") + ": " + msg
}

//Decorate adds information to the error. It returns the decoration slice.
func (err Error) Decorate(deco string) []string {
	if deco != "" {
		err.deco = append(err.deco, deco)
	}
	return err.deco
}

//Config returns true if the error is due to invalid parameters. Configuration errors are returned before any frame
//is processed.
func (err Error) Config() bool { return err.kind == errConfig }

//Degenerate returns true if the error comes from a geometry where the reference
//axis of a tube can't be defined.
func (err Error) Degenerate() bool { return err.kind == errDegenerate }

//Critical always returns true, there are no recoverable errors in this package.
func (err Error) Critical() bool { return true }

//Unwrap returns the wrapped error, if any.
func (err Error) Unwrap() error { return err.err }

func configError(msg string, deco string) Error {
	return Error{message: msg, kind: errConfig, deco: []string{deco}}
}

//IsConfig returns true if err is, or wraps, a configuration Error.
func IsConfig(err error) bool {
	var e Error
	return errors.As(err, &e) && e.Config()
}

//errDecorate decorates err with caller, if err implements chem.Error, and returns it.
//Other errors are wrapped in an Error.
func errDecorate(err error, caller string) error {
	if err == nil {
		return nil
	}
	if e, ok := err.(Error); ok {
		//copy the decorations, as the errors are values
		e.deco = append(e.deco[:len(e.deco):len(e.deco)], caller)
		return e
	}
	if err2, ok := err.(chem.Error); ok {
		err2.Decorate(caller)
		return err
	}
	return Error{message: "trajectory error", kind: errTraj, deco: []string{caller}, err: err}
}
