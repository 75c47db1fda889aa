package engine

import colorful "github.com/lucasb-eyer/go-colorful"

type nopCanvas struct{}

func (nopCanvas) Bounds() (int, int)                                   { return 80, 24 }
func (nopCanvas) Save()                                                {}
func (nopCanvas) Restore()                                             {}
func (nopCanvas) Translate(float64, float64)                           {}
func (nopCanvas) Scale(float64, float64)                               {}
func (nopCanvas) FillRect(int, int, int, int, colorful.Color, float64) {}
