package events

// Type is an event type of the modern level format. The numeric values are
// part of the file format, so new types are only ever appended.
type Type uint16

const (
	Empty Type = iota

	// Basic
	LevelStart
	LevelStartMP
	Checkpoint

	// Scenery
	SceneryDestruct
	SceneryDestructButtstomp
	SceneryDestructSpeed
	SceneryCollapse

	// Modifiers
	ModifierHook
	ModifierOneWay
	ModifierVine
	ModifierHurt
	ModifierRicochet
	ModifierHPole
	ModifierVPole
	ModifierTube
	ModifierSlide
	ModifierLimitCameraView
	ModifierSetWater
	ModifierNoFire

	// Area
	AreaStopEnemy
	AreaFloatUp
	AreaHForce
	AreaText
	AreaEndOfLevel
	AreaCallback
	AreaActivateBoss
	AreaFlyOff
	AreaRevertMorph
	AreaMorphToFrog

	// Triggers
	TriggerCrate
	TriggerArea
	TriggerZone

	// Warp
	WarpCoinBonus
	WarpOrigin
	WarpTarget

	// Lights
	LightAmbient
	LightSteady
	LightPulse
	LightFlicker
	LightReset

	// Environment
	Spring
	Bridge
	MovingPlatform
	SpikeBall
	PushableBox
	Eva
	Pole
	SwingingVine
	BonusPost
	AmbientSound
	AmbientBubbles
	Weather
	Snow

	// Enemies
	EnemyTurtle
	EnemyLizard
	EnemyLizardFloat
	EnemyDragon
	EnemyLabRat
	EnemySucker
	EnemySuckerFloat
	EnemyHelmut
	EnemyBat
	EnemyFatChick
	EnemyFencer
	EnemyRapier
	EnemySparks
	EnemyMonkey
	EnemyDemon
	EnemyBee
	EnemyBeeSwarm
	EnemyCaterpillar
	EnemyCrab
	EnemyDoggy
	EnemyDragonfly
	EnemyFish
	EnemyMadderHatter
	EnemyRaven
	EnemySkeleton
	EnemyTurtleTough
	EnemyTurtleTube
	EnemyWitch

	// Bosses
	BossBilsy
	BossBubba
	BossDevan
	BossQueen
	BossRobot
	BossTuf
	BossUterus
	BossTweedle
	BossBolly

	// Collectibles
	Ammo
	Food
	Gem
	GemGiant
	GemRing
	GemStomp
	Coin
	Carrot
	CarrotFly
	CarrotInvincible
	OneUp
	FastFire
	PowerUp
	Shield
	Stopwatch
	Morph
	BirdCage
	Airboard
	Copter
	SignEOL
	SignBonus

	// Containers
	Crate
	CrateAmmo
	CrateGem
	Barrel
	BarrelAmmo
	BarrelGem
	PowerUpMorph

	// Multiplayer
	CTFBase

	Count
)

// Ammo types of the modern format, indexed from the blaster.
const (
	WeaponBlaster uint8 = iota
	WeaponBouncer
	WeaponFreezer
	WeaponSeeker
	WeaponRF
	WeaponToaster
	WeaponTNT
	WeaponPepper
	WeaponElectro
	WeaponThunderbolt
)
