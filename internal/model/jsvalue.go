package model

import (
	"strconv"

	"github.com/dop251/goja"

	"github.com/hlop3z/migen/internal/alerr"
)

// Helpers reading model properties from goja objects. Missing, undefined
// and null properties all report ok == false.

func present(v goja.Value) bool {
	return v != nil && !goja.IsUndefined(v) && !goja.IsNull(v)
}

func getString(obj *goja.Object, key string) (string, bool) {
	v := obj.Get(key)
	if !present(v) {
		return "", false
	}
	s, ok := v.Export().(string)
	return s, ok
}

func getBool(obj *goja.Object, key string) (bool, bool) {
	v := obj.Get(key)
	if !present(v) {
		return false, false
	}
	b, ok := v.Export().(bool)
	return b, ok
}

// firstBool returns the first boolean property found among keys.
func firstBool(obj *goja.Object, keys ...string) bool {
	for _, k := range keys {
		if b, ok := getBool(obj, k); ok {
			return b
		}
	}
	return false
}

func getInt(obj *goja.Object, key string) (int, bool) {
	v := obj.Get(key)
	if !present(v) {
		return 0, false
	}
	switch n := v.Export().(type) {
	case int64:
		return int(n), true
	case float64:
		if n == float64(int(n)) {
			return int(n), true
		}
	}
	return 0, false
}

// getStringArray reads an array of strings, skipping null elements.
func getStringArray(obj *goja.Object, key string) ([]string, bool) {
	arr, ok := obj.Get(key).(*goja.Object)
	if !ok || arr.ClassName() != "Array" {
		return nil, false
	}
	n, ok := getInt(arr, "length")
	if !ok {
		return nil, false
	}
	result := make([]string, 0, n)
	for i := 0; i < n; i++ {
		elem := arr.Get(strconv.Itoa(i))
		if !present(elem) {
			continue
		}
		s, ok := elem.Export().(string)
		if !ok {
			return nil, false
		}
		result = append(result, s)
	}
	return result, true
}

// exportValue converts a goja value to Go, with nil for undefined and null.
func exportValue(v goja.Value) any {
	if !present(v) {
		return nil
	}
	return v.Export()
}

// wrapJSError wraps a script failure, using the exception text when the
// error is a JavaScript exception.
func wrapJSError(err error, code alerr.Code) *alerr.Error {
	if exception, ok := err.(*goja.Exception); ok {
		return alerr.Wrap(code, err, exception.Value().String())
	}
	return alerr.Wrap(code, err, err.Error())
}
