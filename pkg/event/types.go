package event

const (
	ShotFired      EventType = "ShotFired"
	HitLanded      EventType = "HitLanded"
	EnemySpawned   EventType = "EnemySpawned"
	EnemyDied      EventType = "EnemyDied"
	EnemyLeaked    EventType = "EnemyLeaked"
	TowerBuilt     EventType = "TowerBuilt"
	TowerUpgraded  EventType = "TowerUpgraded"
	TowerSold      EventType = "TowerSold"
	TowerRepaired  EventType = "TowerRepaired"
	TowerDamaged   EventType = "TowerDamaged"
	TowerDestroyed EventType = "TowerDestroyed"
	WaveStarted    EventType = "WaveStarted"
	WaveCompleted  EventType = "WaveCompleted"
	GameOver       EventType = "GameOver"
	LevelWon       EventType = "LevelWon"
	IntentDenied   EventType = "IntentDenied"
	GemDropped     EventType = "GemDropped"
	GemCollected   EventType = "GemCollected"
	DeployableUsed EventType = "DeployableUsed"
	MineTriggered  EventType = "MineTriggered"
	BossAbility    EventType = "BossAbility"
	ComboUpdated   EventType = "ComboUpdated"
	GoldEarned     EventType = "GoldEarned"
	MenuOpened     EventType = "MenuOpened"
	MenuClosed     EventType = "MenuClosed"
	ChestOpened    EventType = "ChestOpened"
	SpeedChanged   EventType = "SpeedChanged"
	PauseToggled   EventType = "PauseToggled"
)
