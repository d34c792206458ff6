package events

import "strconv"

// Legacy is an event code as stored in legacy level files. Values follow the
// numbering of the original level editor's event list.
type Legacy uint8

const (
	JJ2Empty           Legacy = 0
	JJ2OneWay          Legacy = 1
	JJ2Hurt            Legacy = 2
	JJ2Vine            Legacy = 3
	JJ2Hook            Legacy = 4
	JJ2Slide           Legacy = 5
	JJ2HPole           Legacy = 6
	JJ2VPole           Legacy = 7
	JJ2AreaFlyOff      Legacy = 8
	JJ2Ricochet        Legacy = 9
	JJ2BeltRight       Legacy = 10
	JJ2BeltLeft        Legacy = 11
	JJ2AccBeltRight    Legacy = 12
	JJ2AccBeltLeft     Legacy = 13
	JJ2AreaStopEnemy   Legacy = 14
	JJ2WindLeft        Legacy = 15
	JJ2WindRight       Legacy = 16
	JJ2AreaEOL         Legacy = 17
	JJ2AreaWarpEOL     Legacy = 18
	JJ2AreaRevertMorph Legacy = 19
	JJ2AreaFloatUp     Legacy = 20
	JJ2TriggerRock     Legacy = 21
	JJ2LightDim        Legacy = 22
	JJ2LightSet        Legacy = 23
	JJ2AreaLimitX      Legacy = 24
	JJ2LightReset      Legacy = 25
	JJ2AreaWarpSecret  Legacy = 26
	JJ2Echo            Legacy = 27
	JJ2AreaActivate    Legacy = 28
	JJ2JazzStart       Legacy = 29
	JJ2SpazStart       Legacy = 30
	JJ2MPStart         Legacy = 31
	JJ2LoriStart       Legacy = 32

	JJ2AmmoFreezer Legacy = 33
	JJ2AmmoBouncer Legacy = 34
	JJ2AmmoSeeker  Legacy = 35
	JJ2AmmoRF      Legacy = 36
	JJ2AmmoToaster Legacy = 37
	JJ2AmmoTNT     Legacy = 38
	JJ2AmmoPepper  Legacy = 39
	JJ2AmmoElectro Legacy = 40

	JJ2TurtleShell  Legacy = 41
	JJ2SwingingVine Legacy = 42
	JJ2Bomb         Legacy = 43
	JJ2CoinSilver   Legacy = 44
	JJ2CoinGold     Legacy = 45
	JJ2CrateAmmo    Legacy = 46
	JJ2CrateCarrot  Legacy = 47
	JJ2CrateOneUp   Legacy = 48
	JJ2BarrelGem    Legacy = 49
	JJ2BarrelCarrot Legacy = 50
	JJ2BarrelOneUp  Legacy = 51
	JJ2Crate        Legacy = 52

	JJ2AmmoFreezer15 Legacy = 53
	JJ2AmmoBouncer15 Legacy = 54
	JJ2AmmoSeeker15  Legacy = 55
	JJ2AmmoRF15      Legacy = 56
	JJ2AmmoToaster15 Legacy = 57

	JJ2TNT               Legacy = 58
	JJ2Airboard          Legacy = 59
	JJ2FrozenSpringGreen Legacy = 60
	JJ2FastFire          Legacy = 61
	JJ2CrateSpring       Legacy = 62
	JJ2GemRed            Legacy = 63
	JJ2GemGreen          Legacy = 64
	JJ2GemBlue           Legacy = 65
	JJ2GemPurple         Legacy = 66
	JJ2GemGiant          Legacy = 67
	JJ2Birdy             Legacy = 68
	JJ2BarrelAmmo        Legacy = 69
	JJ2CrateGem          Legacy = 70
	JJ2MorphMonitor      Legacy = 71
	JJ2Carrot            Legacy = 72
	JJ2CarrotFull        Legacy = 73
	JJ2ShieldFire        Legacy = 74
	JJ2ShieldWater       Legacy = 75
	JJ2ShieldLightning   Legacy = 76
	JJ2Maxim             Legacy = 77
	JJ2AutoFire          Legacy = 78
	JJ2FastFeet          Legacy = 79
	JJ2ExtraLife         Legacy = 80
	JJ2SignEOL           Legacy = 81
	JJ2SavePoint         Legacy = 83
	JJ2SignBonus         Legacy = 84
	JJ2SpringRed         Legacy = 85
	JJ2SpringGreen       Legacy = 86
	JJ2SpringBlue        Legacy = 87
	JJ2Invincibility     Legacy = 88
	JJ2ExtraTime         Legacy = 89
	JJ2FreezeEnemies     Legacy = 90
	JJ2HSpringRed        Legacy = 91
	JJ2HSpringGreen      Legacy = 92
	JJ2HSpringBlue       Legacy = 93
	JJ2MorphBird         Legacy = 94
	JJ2TriggerCrate      Legacy = 95
	JJ2CarrotFly         Legacy = 96
	JJ2RectGemRed        Legacy = 97
	JJ2RectGemGreen      Legacy = 98
	JJ2RectGemBlue       Legacy = 99

	JJ2EnemyTurtleTough   Legacy = 100
	JJ2BossTuf            Legacy = 101
	JJ2EnemyLabRat        Legacy = 102
	JJ2EnemyDragon        Legacy = 103
	JJ2EnemyLizard        Legacy = 104
	JJ2EnemyBee           Legacy = 105
	JJ2EnemyRapier        Legacy = 106
	JJ2EnemySparks        Legacy = 107
	JJ2EnemyBat           Legacy = 108
	JJ2EnemySucker        Legacy = 109
	JJ2EnemyCaterpillar   Legacy = 110
	JJ2EnemyCheshire1     Legacy = 111
	JJ2EnemyCheshire2     Legacy = 112
	JJ2EnemyMadderHatter  Legacy = 113
	JJ2BossBilsy          Legacy = 114
	JJ2EnemySkeleton      Legacy = 115
	JJ2EnemyDoggyDogg     Legacy = 116
	JJ2EnemyTurtle        Legacy = 117
	JJ2EnemyHelmut        Legacy = 118
	JJ2EnemyLeaf          Legacy = 119
	JJ2EnemyDemon         Legacy = 120
	JJ2EnemyFire          Legacy = 121
	JJ2EnemyLava          Legacy = 122
	JJ2EnemyDragonfly     Legacy = 123
	JJ2EnemyMonkey        Legacy = 124
	JJ2EnemyFatChick      Legacy = 125
	JJ2EnemyFencer        Legacy = 126
	JJ2EnemyFish          Legacy = 127
	JJ2EnemyMoth          Legacy = 128
	JJ2Steam              Legacy = 129
	JJ2RotatingRock       Legacy = 130
	JJ2PowerUpBlaster     Legacy = 131
	JJ2PowerUpBouncer     Legacy = 132
	JJ2PowerUpFreezer     Legacy = 133
	JJ2PowerUpSeeker      Legacy = 134
	JJ2PowerUpRF          Legacy = 135
	JJ2PowerUpToaster     Legacy = 136
	JJ2PinLeftPaddle      Legacy = 137
	JJ2PinRightPaddle     Legacy = 138
	JJ2Pin500Bump         Legacy = 139
	JJ2PinCarrotBump      Legacy = 140
	JJ2FoodApple          Legacy = 141
	JJ2FoodPretzel        Legacy = 146
	JJ2FoodStrawberry     Legacy = 147
	JJ2LightSteady        Legacy = 148
	JJ2LightPulse         Legacy = 149
	JJ2LightFlicker       Legacy = 150
	JJ2BossQueen          Legacy = 151
	JJ2EnemySuckerFloat   Legacy = 152
	JJ2Bridge             Legacy = 153
	JJ2FoodLemon          Legacy = 154
	JJ2FoodCheese         Legacy = 182
	JJ2EnemyLizardFloat   Legacy = 183
	JJ2EnemyMonkeyStand   Legacy = 184
	JJ2SceneryDestruct    Legacy = 185
	JJ2SceneryDestructTNT Legacy = 186
	JJ2SceneryCollapse    Legacy = 187
	JJ2SceneryStomp       Legacy = 188
	JJ2GemStomp           Legacy = 189
	JJ2EnemyRaven         Legacy = 190
	JJ2EnemyTurtleTube    Legacy = 191
	JJ2GemRing            Legacy = 192
	JJ2SmallTree          Legacy = 193
	JJ2AmbientSound       Legacy = 194
	JJ2BossUterus         Legacy = 195
	JJ2EnemyCrab          Legacy = 196
	JJ2Witch              Legacy = 197
	JJ2EnemyTurtleRocket  Legacy = 198
	JJ2BossBubba          Legacy = 199
	JJ2BossDevanDevil     Legacy = 200
	JJ2BossDevanRobot     Legacy = 201
	JJ2BossRobot          Legacy = 202
	JJ2PoleCarrotus       Legacy = 203
	JJ2PolePsych          Legacy = 204
	JJ2PoleDiamondus      Legacy = 205
	JJ2SuckerTube         Legacy = 206
	JJ2AreaText           Legacy = 207
	JJ2WaterLevel         Legacy = 208
	JJ2PlatformFruit      Legacy = 209
	JJ2PlatformBoll       Legacy = 210
	JJ2PlatformGrass      Legacy = 211
	JJ2PlatformPink       Legacy = 212
	JJ2PlatformSonic      Legacy = 213
	JJ2PlatformSpike      Legacy = 214
	JJ2SpikeBoll          Legacy = 215
	JJ2Generator          Legacy = 216
	JJ2Eva                Legacy = 217
	JJ2Bubbler            Legacy = 218
	JJ2PowerUpTNT         Legacy = 219
	JJ2PowerUpPepper      Legacy = 220
	JJ2PowerUpElectro     Legacy = 221
	JJ2MorphFrog          Legacy = 222
	JJ2SpikeBoll3D        Legacy = 223
	JJ2Springcord         Legacy = 224
	JJ2EnemyBees          Legacy = 225
	JJ2Copter             Legacy = 226
	JJ2ShieldLaser        Legacy = 227
	JJ2Stopwatch          Legacy = 228
	JJ2PoleJungle         Legacy = 229
	JJ2WarpOrigin         Legacy = 230
	JJ2PushableRock       Legacy = 231
	JJ2PushableBox        Legacy = 232
	JJ2WaterBlock         Legacy = 233
	JJ2TriggerScenery     Legacy = 234
	JJ2BossBolly          Legacy = 235
	JJ2Butterfly          Legacy = 236
	JJ2BeeBoy             Legacy = 237
	JJ2Snow               Legacy = 238
	JJ2WarpTarget         Legacy = 240
	JJ2BossTweedle        Legacy = 241
	JJ2AreaID             Legacy = 242
	JJ2CTFBase            Legacy = 244
	JJ2AreaNoFire         Legacy = 245
	JJ2TriggerZone        Legacy = 246

	// JJ2MCE marks the last cell of a level whose bottom edge is a pit.
	JJ2MCE Legacy = 255
)

var legacyNames = map[Legacy]string{
	JJ2Empty:       "empty",
	JJ2Echo:        "echo",
	JJ2TurtleShell: "turtle_shell",
	JJ2Generator:   "generator",
	JJ2WarpOrigin:  "warp_origin",
	JJ2WarpTarget:  "warp_target",
	JJ2CTFBase:     "ctf_base",
	JJ2MCE:         "mce",
}

func (l Legacy) String() string {
	if name, ok := legacyNames[l]; ok {
		return name
	}
	return "jj2_event_" + strconv.Itoa(int(l))
}
