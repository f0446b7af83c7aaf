package actor

// Kind discriminates actors for interaction and picking dispatch.
type Kind uint8

const (
	KindDecorator Kind = iota
	KindHelper
	KindPlayer
	KindCollidableAmmo
	KindCollidableActivatable
	KindCollidableDecorator
	KindZone
	KindCamera
	KindUITexture
	KindUIText
)

var kindNames = map[Kind]string{
	KindDecorator:             "decorator",
	KindHelper:                "helper",
	KindPlayer:                "player",
	KindCollidableAmmo:        "collidable_ammo",
	KindCollidableActivatable: "collidable_activatable",
	KindCollidableDecorator:   "collidable_decorator",
	KindZone:                  "zone",
	KindCamera:                "camera",
	KindUITexture:             "ui_texture",
	KindUIText:                "ui_text",
}

func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return "unknown"
}

// ParseKind maps a scene-file kind name to a Kind.
func ParseKind(s string) (Kind, bool) {
	for k, n := range kindNames {
		if n == s {
			return k, true
		}
	}
	return 0, false
}

// Collidable reports whether the kind takes part in player interaction.
func (k Kind) Collidable() bool {
	switch k {
	case KindCollidableAmmo, KindCollidableActivatable, KindCollidableDecorator, KindZone:
		return true
	}
	return false
}
