package event

import (
	"fmt"
	"reflect"
)

// Category is the coarse channel an event is routed on.
type Category uint8

const (
	CategoryNone Category = iota
	CategoryCamera
	CategoryMainMenu
	CategoryDebug
	CategoryPickup
	CategoryObjectPicked
	CategoryActor
	CategoryPlayer
)

// knownCategories is the fixed dispatch table. Events on any other category
// are drained and dropped.
var knownCategories = map[Category]string{
	CategoryCamera:       "camera",
	CategoryMainMenu:     "main_menu",
	CategoryDebug:        "debug",
	CategoryPickup:       "pickup",
	CategoryObjectPicked: "object_picked",
	CategoryActor:        "actor",
	CategoryPlayer:       "player",
}

func (c Category) String() string {
	if n, ok := knownCategories[c]; ok {
		return n
	}
	return fmt.Sprintf("category(%d)", uint8(c))
}

// Known reports whether the category has a slot in the dispatch table.
func (c Category) Known() bool {
	_, ok := knownCategories[c]
	return ok
}

// Action is the specific occurrence within a category.
type Action uint16

const (
	ActionNone Action = iota

	// Camera
	OnCameraSetActive // [camera id string]
	OnCameraCycle

	// MainMenu
	OnPause
	OnPlay

	// Debug
	OnToggleDebug
	OnSave

	// Pickup
	OnPickup // [actor id string, value float64]

	// ObjectPicked
	OnObjectPicked // [actor id string, distance float64]
	OnNonePicked   // [text string]

	// Actor
	OnAddActor    // [*actor.Actor]
	OnRemoveActor // [actor id string]

	// Player
	OnWin // [controller id string]
)

var actionNames = map[Action]string{
	ActionNone:        "none",
	OnCameraSetActive: "on_camera_set_active",
	OnCameraCycle:     "on_camera_cycle",
	OnPause:           "on_pause",
	OnPlay:            "on_play",
	OnToggleDebug:     "on_toggle_debug",
	OnSave:            "on_save",
	OnPickup:          "on_pickup",
	OnObjectPicked:    "on_object_picked",
	OnNonePicked:      "on_none_picked",
	OnAddActor:        "on_add_actor",
	OnRemoveActor:     "on_remove_actor",
	OnWin:             "on_win",
}

func (a Action) String() string {
	if n, ok := actionNames[a]; ok {
		return n
	}
	return fmt.Sprintf("action(%d)", uint16(a))
}

// Data describes one occurrence. It is a value; Publish copies Params so the
// published event cannot be changed afterwards.
type Data struct {
	Category Category
	Action   Action
	Params   []any
}

func New(category Category, action Action, params ...any) Data {
	return Data{Category: category, Action: action, Params: params}
}

// IsZero reports an empty event (no category).
func (d Data) IsZero() bool { return d.Category == CategoryNone }

// Param returns the i-th parameter, or false when out of range.
func (d Data) Param(i int) (any, bool) {
	if i < 0 || i >= len(d.Params) {
		return nil, false
	}
	return d.Params[i], true
}

// StringParam returns the i-th parameter when it is a string.
func (d Data) StringParam(i int) (string, bool) {
	v, ok := d.Param(i)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// FloatParam returns the i-th parameter when it is a float64.
func (d Data) FloatParam(i int) (float64, bool) {
	v, ok := d.Param(i)
	if !ok {
		return 0, false
	}
	f, ok := v.(float64)
	return f, ok
}

// Equal compares category, action and every parameter. Pointers compare by
// identity, scalars by value, everything else deeply.
func (d Data) Equal(o Data) bool {
	if d.Category != o.Category || d.Action != o.Action || len(d.Params) != len(o.Params) {
		return false
	}
	for i := range d.Params {
		if !paramEqual(d.Params[i], o.Params[i]) {
			return false
		}
	}
	return true
}

func (d Data) String() string {
	return fmt.Sprintf("%s/%s%v", d.Category, d.Action, d.Params)
}

func paramEqual(x, y any) bool {
	if x == nil || y == nil {
		return x == nil && y == nil
	}
	tx := reflect.TypeOf(x)
	if tx != reflect.TypeOf(y) {
		return false
	}
	switch tx.Kind() {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128,
		reflect.Pointer, reflect.Chan, reflect.UnsafePointer:
		return x == y
	case reflect.Func:
		return reflect.ValueOf(x).Pointer() == reflect.ValueOf(y).Pointer()
	}
	return reflect.DeepEqual(x, y)
}
