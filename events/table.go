package events

// Exit types of AreaEndOfLevel.
const (
	ExitNormal  uint8 = 1
	ExitWarp    uint8 = 2
	ExitBonus   uint8 = 3
	ExitSpecial uint8 = 4
)

// Force types of AreaHForce.
const (
	ForceBelt        uint8 = 0
	ForceBeltAccel   uint8 = 1
	ForceWind        uint8 = 2
	forceSpeedOffset uint8 = 1
)

// Player masks of LevelStart.
const (
	PlayerJazz uint8 = 1 << iota
	PlayerSpaz
	PlayerLori
)

// Spring orientations.
const (
	SpringUp         uint8 = 0
	SpringDown       uint8 = 1
	SpringHorizontal uint8 = 5
	SpringLeft       uint8 = 4
)

// AnyWeapon is the SceneryDestruct mask that accepts every weapon.
const AnyWeapon uint16 = 0xFFFF

func simple(t Type, params ...Param) Mapping {
	return Mapping{Type: t, Params: params}
}

func preset(t Type, fixed []byte, params ...Param) Mapping {
	return Mapping{Type: t, Params: params, Preset: fixed}
}

// container builds the preset of a crate or barrel holding count events of
// type content.
func container(t Type, content Type, count uint8) Mapping {
	return preset(t, []byte{byte(content), byte(content >> 8), count})
}

func tsfOnly(m Mapping) Mapping {
	next := m.Remap
	m.Remap = func(c *Converter, ctx Context, v []int32, r *Result) bool {
		if ctx == nil || !ctx.IsTSF() {
			return false
		}
		if next != nil {
			return next(c, ctx, v, r)
		}
		return true
	}
	return m
}

func force(kind uint8, dir int32) Mapping {
	return Mapping{
		Type:   AreaHForce,
		Params: []Param{I(8, forceSpeedOffset)},
		Preset: []byte{kind},
		Remap: func(_ *Converter, _ Context, v []int32, r *Result) bool {
			r.PutUint8(forceSpeedOffset, uint8(int8(v[0]*dir)))
			return true
		},
	}
}

// legacyWeaponMask maps the weapon field of destructible scenery, where 0
// accepts any weapon and n selects weapon n-1.
func legacyWeaponMask(w int32) uint16 {
	if w <= 0 || w > int32(WeaponThunderbolt)+1 {
		return AnyWeapon
	}
	return 1 << uint(w-1)
}

func ammo(weapon uint8) Mapping {
	return preset(Ammo, []byte{weapon})
}

func powerUp(weapon uint8) Mapping {
	return preset(PowerUp, []byte{weapon})
}

func gem(color uint8) Mapping {
	return preset(Gem, []byte{color})
}

func food(index uint8) Mapping {
	return preset(Food, []byte{index})
}

func platform(kind uint8) Mapping {
	return preset(MovingPlatform, []byte{kind}, U(2, 1), I(6, 2), U(4, 3), B(4))
}

func pole(kind uint8) Mapping {
	return preset(Pole, []byte{kind}, U(5, 1), I(6, 2))
}

func boss(t Type) Mapping {
	return simple(t, U(4, 0))
}

func spring(color uint8, horizontal bool) Mapping {
	return Mapping{
		Type:   Spring,
		Params: []Param{B(1), B(2), B(3), U(4, 4)},
		Preset: []byte{color},
		Remap: func(_ *Converter, _ Context, v []int32, r *Result) bool {
			switch {
			case horizontal && v[0] != 0:
				r.PutUint8(1, SpringLeft)
			case horizontal:
				r.PutUint8(1, SpringHorizontal)
			case v[0] != 0:
				r.PutUint8(1, SpringDown)
			default:
				r.PutUint8(1, SpringUp)
			}
			return true
		},
	}
}

func defaultTable() map[Legacy]Mapping {
	t := map[Legacy]Mapping{
		JJ2Empty: simple(Empty),
		JJ2MCE:   simple(Empty),

		JJ2OneWay:     simple(ModifierOneWay),
		JJ2Hurt:       simple(ModifierHurt, B(0), B(1), B(2), B(3)),
		JJ2Vine:       simple(ModifierVine),
		JJ2Hook:       simple(ModifierHook),
		JJ2Slide:      simple(ModifierSlide, U(2, 0)),
		JJ2HPole:      simple(ModifierHPole),
		JJ2VPole:      simple(ModifierVPole),
		JJ2Ricochet:   simple(ModifierRicochet),
		JJ2AreaFlyOff: simple(AreaFlyOff),

		JJ2BeltRight:    force(ForceBelt, 1),
		JJ2BeltLeft:     force(ForceBelt, -1),
		JJ2AccBeltRight: force(ForceBeltAccel, 1),
		JJ2AccBeltLeft:  force(ForceBeltAccel, -1),
		JJ2WindRight:    force(ForceWind, 1),
		JJ2WindLeft:     force(ForceWind, -1),

		JJ2AreaStopEnemy:   simple(AreaStopEnemy),
		JJ2AreaFloatUp:     simple(AreaFloatUp),
		JJ2AreaRevertMorph: simple(AreaRevertMorph),
		JJ2AreaActivate:    simple(AreaActivateBoss, B(0)),
		JJ2AreaText:        simple(AreaText, U(8, 0), B(1)),
		JJ2AreaNoFire:      simple(ModifierNoFire, U(2, 0)),
		JJ2TriggerZone:     simple(TriggerZone, U(5, 0), B(1), B(2)),
		JJ2TriggerCrate:    simple(TriggerCrate, U(5, 0), B(1)),
		JJ2MorphFrog:       simple(AreaMorphToFrog),

		JJ2AreaEOL: {
			Type:   AreaEndOfLevel,
			Params: []Param{B(1)},
			Preset: []byte{ExitNormal},
			Remap: func(_ *Converter, _ Context, v []int32, r *Result) bool {
				if v[0] != 0 {
					r.PutUint8(0, ExitSpecial)
					r.PutUint8(1, 0)
				}
				return true
			},
		},
		JJ2AreaWarpEOL:    preset(AreaEndOfLevel, []byte{ExitWarp}, B(1)),
		JJ2AreaWarpSecret: preset(AreaEndOfLevel, []byte{ExitSpecial}),
		JJ2AreaLimitX:     simple(ModifierLimitCameraView, U(10, 0), U(10, 2)),

		JJ2LightDim:   preset(LightAmbient, []byte{127}),
		JJ2LightReset: simple(LightReset),
		JJ2LightSet: {
			Type:   LightAmbient,
			Params: []Param{U(7, 0), U(4, 1), U(4, 2), U(4, 3), B(4)},
			Remap: func(_ *Converter, _ Context, v []int32, r *Result) bool {
				// Intensity is stored as 0..100 in the legacy editor.
				intensity := v[0]
				if intensity > 100 {
					intensity = 100
				}
				r.PutUint8(0, uint8(intensity*255/100))
				return true
			},
		},
		JJ2LightSteady:  simple(LightSteady, U(3, 0), U(7, 1)),
		JJ2LightPulse:   simple(LightPulse, U(8, 0), U(4, 1), U(3, 2), U(5, 3)),
		JJ2LightFlicker: simple(LightFlicker, U(8, 0)),

		JJ2JazzStart: preset(LevelStart, []byte{PlayerJazz}),
		JJ2SpazStart: preset(LevelStart, []byte{PlayerSpaz}),
		JJ2LoriStart: tsfOnly(preset(LevelStart, []byte{PlayerLori})),
		JJ2MPStart:   simple(LevelStartMP, U(1, 0)),
		JJ2SavePoint: simple(Checkpoint),

		JJ2AmmoBouncer: ammo(WeaponBouncer),
		JJ2AmmoFreezer: ammo(WeaponFreezer),
		JJ2AmmoSeeker:  ammo(WeaponSeeker),
		JJ2AmmoRF:      ammo(WeaponRF),
		JJ2AmmoToaster: ammo(WeaponToaster),
		JJ2AmmoTNT:     ammo(WeaponTNT),
		JJ2AmmoPepper:  ammo(WeaponPepper),
		JJ2AmmoElectro: ammo(WeaponElectro),

		JJ2AmmoBouncer15: preset(Ammo, []byte{WeaponBouncer, 15}),
		JJ2AmmoFreezer15: preset(Ammo, []byte{WeaponFreezer, 15}),
		JJ2AmmoSeeker15:  preset(Ammo, []byte{WeaponSeeker, 15}),
		JJ2AmmoRF15:      preset(Ammo, []byte{WeaponRF, 15}),
		JJ2AmmoToaster15: preset(Ammo, []byte{WeaponToaster, 15}),

		JJ2PowerUpBlaster: powerUp(WeaponBlaster),
		JJ2PowerUpBouncer: powerUp(WeaponBouncer),
		JJ2PowerUpFreezer: powerUp(WeaponFreezer),
		JJ2PowerUpSeeker:  powerUp(WeaponSeeker),
		JJ2PowerUpRF:      powerUp(WeaponRF),
		JJ2PowerUpToaster: powerUp(WeaponToaster),
		JJ2PowerUpTNT:     powerUp(WeaponTNT),
		JJ2PowerUpPepper:  powerUp(WeaponPepper),
		JJ2PowerUpElectro: powerUp(WeaponElectro),

		JJ2GemRed:       gem(0),
		JJ2GemGreen:     gem(1),
		JJ2GemBlue:      gem(2),
		JJ2GemPurple:    gem(3),
		JJ2RectGemRed:   gem(0),
		JJ2RectGemGreen: gem(1),
		JJ2RectGemBlue:  gem(2),
		JJ2GemGiant:     simple(GemGiant),
		JJ2GemRing:      simple(GemRing, U(5, 0), U(5, 1), U(8, 2)),
		JJ2GemStomp:     simple(GemStomp, U(5, 0)),
		JJ2CoinSilver:   preset(Coin, []byte{0}),
		JJ2CoinGold:     preset(Coin, []byte{1}),

		JJ2Carrot:          preset(Carrot, []byte{0}),
		JJ2CarrotFull:      preset(Carrot, []byte{1}),
		JJ2CarrotFly:       simple(CarrotFly),
		JJ2Invincibility:   simple(CarrotInvincible),
		JJ2ExtraLife:       simple(OneUp),
		JJ2FastFire:        simple(FastFire),
		JJ2Stopwatch:       simple(Stopwatch),
		JJ2ShieldFire:      preset(Shield, []byte{0}),
		JJ2ShieldWater:     preset(Shield, []byte{1}),
		JJ2ShieldLightning: preset(Shield, []byte{2}),
		JJ2ShieldLaser:     preset(Shield, []byte{3}),
		JJ2MorphMonitor:    simple(PowerUpMorph),
		JJ2MorphBird:       preset(Morph, []byte{1}),
		JJ2Birdy:           simple(BirdCage, B(0)),
		JJ2Airboard:        simple(Airboard, U(5, 0)),
		JJ2Copter:          simple(Copter, U(8, 0)),
		JJ2SignEOL:         simple(SignEOL),
		JJ2SignBonus:       simple(SignBonus),

		JJ2CrateAmmo:    simple(CrateAmmo, U(8, 0)),
		JJ2CrateCarrot:  container(Crate, Carrot, 1),
		JJ2CrateOneUp:   container(Crate, OneUp, 1),
		JJ2CrateSpring:  container(Crate, Spring, 1),
		JJ2CrateGem:     simple(CrateGem, U(4, 0), U(4, 1), U(4, 2), U(4, 3)),
		JJ2BarrelCarrot: container(Barrel, Carrot, 1),
		JJ2BarrelOneUp:  container(Barrel, OneUp, 1),
		JJ2BarrelAmmo:   simple(BarrelAmmo, U(8, 0)),
		JJ2BarrelGem:    simple(BarrelGem, U(4, 0), U(4, 1), U(4, 2), U(4, 3)),
		JJ2Crate: {
			Type:   Crate,
			Params: []Param{U(8, 0), U(4, 2), B(3), B(4)},
			Remap: func(c *Converter, ctx Context, v []int32, r *Result) bool {
				// The content is a legacy event number of its own.
				inner := c.TryConvert(ctx, Legacy(v[0]), 0)
				r.PutUint16(0, uint16(inner.Type))
				if v[1] == 0 {
					r.PutUint8(2, 1)
				}
				return true
			},
		},

		JJ2SpringRed:    spring(0, false),
		JJ2SpringGreen:  spring(1, false),
		JJ2SpringBlue:   spring(2, false),
		JJ2HSpringRed:   spring(0, true),
		JJ2HSpringGreen: spring(1, true),
		JJ2HSpringBlue:  spring(2, true),

		JJ2Bridge:        simple(Bridge, U(4, 0), U(3, 1), U(4, 2)),
		JJ2PlatformFruit: platform(1),
		JJ2PlatformBoll:  platform(2),
		JJ2PlatformGrass: platform(3),
		JJ2PlatformPink:  platform(4),
		JJ2PlatformSonic: platform(5),
		JJ2PlatformSpike: platform(6),
		JJ2SpikeBoll:     simple(SpikeBall, U(2, 0), I(6, 1), U(4, 2), B(3), B(4)),
		JJ2SpikeBoll3D:   simple(SpikeBall, U(2, 0), I(6, 1), U(4, 2), B(3), B(4)),
		JJ2PushableRock:  preset(PushableBox, []byte{0}),
		JJ2PushableBox:   preset(PushableBox, []byte{1}),
		JJ2Eva:           simple(Eva),
		JJ2SwingingVine:  simple(SwingingVine),
		JJ2PoleCarrotus:  pole(0),
		JJ2PoleDiamondus: pole(1),
		JJ2PolePsych:     pole(2),
		JJ2PoleJungle:    pole(3),
		JJ2AmbientSound:  simple(AmbientSound, U(8, 0), U(8, 1), B(2), B(3)),
		JJ2Bubbler:       simple(AmbientBubbles, U(4, 0)),
		JJ2Snow:          preset(Weather, []byte{1}, U(2, 1), B(2)),
		JJ2SuckerTube:    simple(ModifierTube, I(7, 0), I(7, 1), B(2), B(3), B(4), U(3, 5)),

		JJ2WaterLevel: {
			Type:   ModifierSetWater,
			Params: []Param{U(8, 0), B(2)},
			Remap: func(_ *Converter, _ Context, v []int32, r *Result) bool {
				// Height is given in tiles.
				r.PutUint16(0, uint16(v[0]*32))
				return true
			},
		},

		JJ2SceneryDestruct: {
			Type:   SceneryDestruct,
			Params: []Param{U(4, 0)},
			Remap: func(_ *Converter, _ Context, v []int32, r *Result) bool {
				r.PutUint16(0, legacyWeaponMask(v[0]))
				return true
			},
		},
		JJ2SceneryDestructTNT: {
			Type: SceneryDestruct,
			Remap: func(_ *Converter, _ Context, _ []int32, r *Result) bool {
				r.PutUint16(0, 1<<WeaponTNT)
				return true
			},
		},
		JJ2SceneryCollapse: simple(SceneryCollapse, U(10, 0), U(5, 2)),
		JJ2SceneryStomp:    simple(SceneryDestructButtstomp),

		JJ2WarpOrigin: {
			Type:   WarpOrigin,
			Params: []Param{U(8, 0), U(8, 3), B(2), B(4), B(1)},
			Remap: func(_ *Converter, _ Context, v []int32, r *Result) bool {
				// A non-zero cost makes it a coin warp.
				if v[1] > 0 {
					r.Type = WarpCoinBonus
				}
				return true
			},
		},
		JJ2WarpTarget: simple(WarpTarget, U(8, 0)),
		JJ2CTFBase:    simple(CTFBase, U(1, 0), U(1, 1)),

		JJ2EnemyTurtle:       simple(EnemyTurtle),
		JJ2EnemyTurtleTough:  simple(EnemyTurtleTough),
		JJ2EnemyTurtleTube:   simple(EnemyTurtleTube),
		JJ2EnemyLabRat:       simple(EnemyLabRat),
		JJ2EnemyDragon:       simple(EnemyDragon),
		JJ2EnemyLizard:       simple(EnemyLizard),
		JJ2EnemyLizardFloat:  simple(EnemyLizardFloat, U(8, 0), B(1)),
		JJ2EnemyBee:          simple(EnemyBee),
		JJ2EnemyBees:         simple(EnemyBeeSwarm, U(8, 0)),
		JJ2EnemyRapier:       simple(EnemyRapier),
		JJ2EnemySparks:       simple(EnemySparks),
		JJ2EnemyBat:          simple(EnemyBat),
		JJ2EnemySucker:       simple(EnemySucker),
		JJ2EnemySuckerFloat:  simple(EnemySuckerFloat),
		JJ2EnemyCaterpillar:  simple(EnemyCaterpillar),
		JJ2EnemyMadderHatter: simple(EnemyMadderHatter),
		JJ2EnemySkeleton:     simple(EnemySkeleton),
		JJ2EnemyDoggyDogg:    simple(EnemyDoggy),
		JJ2EnemyHelmut:       simple(EnemyHelmut),
		JJ2EnemyDemon:        simple(EnemyDemon),
		JJ2EnemyDragonfly:    simple(EnemyDragonfly),
		JJ2EnemyMonkey:       preset(EnemyMonkey, []byte{0}),
		JJ2EnemyMonkeyStand:  preset(EnemyMonkey, []byte{1}),
		JJ2EnemyFatChick:     simple(EnemyFatChick),
		JJ2EnemyFencer:       simple(EnemyFencer),
		JJ2EnemyFish:         simple(EnemyFish),
		JJ2EnemyRaven:        simple(EnemyRaven),
		JJ2EnemyCrab:         simple(EnemyCrab),
		JJ2Witch:             simple(EnemyWitch),

		JJ2BossTuf:        boss(BossTuf),
		JJ2BossBilsy:      boss(BossBilsy),
		JJ2BossQueen:      boss(BossQueen),
		JJ2BossUterus:     boss(BossUterus),
		JJ2BossBubba:      boss(BossBubba),
		JJ2BossDevanDevil: boss(BossDevan),
		JJ2BossRobot:      boss(BossRobot),
		JJ2BossBolly:      boss(BossBolly),
		JJ2BossTweedle:    tsfOnly(boss(BossTweedle)),
	}

	// The food events are split across two runs of legacy numbers.
	var idx uint8
	for l := JJ2FoodApple; l <= JJ2FoodStrawberry; l++ {
		t[l] = food(idx)
		idx++
	}
	for l := JJ2FoodLemon; l <= JJ2FoodCheese; l++ {
		t[l] = food(idx)
		idx++
	}
	return t
}
