// Copyright 2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package host

import (
	"errors"
	"fmt"
	"io"
	"reflect"
	"strconv"
	"strings"

	"github.com/beevik/nesgen/schedule"
	"github.com/beevik/nesgen/timing"
	"github.com/beevik/prefixtree/v2"
)

type settings struct {
	DecoderPackage   string `doc:"package of generated decoders"`
	SchedulerPackage string `doc:"package of generated schedulers"`
	ReduceLimit      int    `doc:"longest repeating chunk pattern" min:"1"`
	Scanlines        int    `doc:"scanlines per frame" min:"1"`
	Dots             int    `doc:"dots per scanline" min:"1"`
	Verbose          bool   `doc:"verbose compiler output"`
}

func newSettings() *settings {
	return &settings{
		DecoderPackage:   "mos6502",
		SchedulerPackage: "rp2c02",
		ReduceLimit:      schedule.DefaultReduceLimit,
		Scanlines:        timing.NTSC.Scanlines,
		Dots:             timing.NTSC.Dots,
		Verbose:          false,
	}
}

func (s *settings) frame() timing.Frame {
	return timing.Frame{Scanlines: s.Scanlines, Dots: s.Dots}
}

type settingsField struct {
	name  string
	index int
	kind  reflect.Kind
	typ   reflect.Type
	doc   string
	min   int64
	limit bool
}

var (
	settingsTree   = prefixtree.New[*settingsField]()
	settingsFields []settingsField
)

func init() {
	settingsType := reflect.TypeOf(settings{})
	settingsFields = make([]settingsField, settingsType.NumField())
	for i := 0; i < len(settingsFields); i++ {
		f := settingsType.Field(i)
		doc, _ := f.Tag.Lookup("doc")
		settingsFields[i] = settingsField{
			name:  f.Name,
			index: i,
			kind:  f.Type.Kind(),
			typ:   f.Type,
			doc:   doc,
		}
		if m, ok := f.Tag.Lookup("min"); ok {
			settingsFields[i].min, _ = strconv.ParseInt(m, 10, 64)
			settingsFields[i].limit = true
		}
		settingsTree.Add(strings.ToLower(f.Name), &settingsFields[i])
	}
}

func (s *settings) Display(w io.Writer) {
	value := reflect.ValueOf(s).Elem()
	for i, f := range settingsFields {
		v := value.Field(i)
		var s string
		switch f.kind {
		case reflect.String:
			s = fmt.Sprintf("    %-16s \"%s\"", f.name, v.String())
		default:
			s = fmt.Sprintf("    %-16s %v", f.name, v)
		}
		fmt.Fprintf(w, "%-32s (%s)\n", s, f.doc)
	}
}

func (s *settings) Kind(key string) reflect.Kind {
	f, err := settingsTree.FindValue(strings.ToLower(key))
	if err != nil {
		return reflect.Invalid
	}
	return f.kind
}

// Name returns the full name of the setting matching a key prefix.
func (s *settings) Name(key string) string {
	f, err := settingsTree.FindValue(strings.ToLower(key))
	if err != nil {
		return key
	}
	return f.name
}

func (s *settings) Set(key string, value any) error {
	f, err := settingsTree.FindValue(strings.ToLower(key))
	if err != nil {
		return err
	}

	vIn := reflect.ValueOf(value)
	if (f.kind == reflect.String && vIn.Type().Kind() != reflect.String) ||
		(f.kind != reflect.String && vIn.Type().Kind() == reflect.String) ||
		!vIn.Type().ConvertibleTo(f.typ) {
		return errors.New("invalid type")
	}
	vInConverted := vIn.Convert(f.typ)

	if f.limit && vInConverted.Int() < f.min {
		return fmt.Errorf("%s must be at least %d", f.name, f.min)
	}

	vOut := reflect.ValueOf(s).Elem().Field(f.index).Addr().Elem()
	vOut.Set(vInConverted)

	return nil
}
