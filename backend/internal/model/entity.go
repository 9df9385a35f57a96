package model

// EntityID the single meaningful row of ente
const EntityID = 1

// Entity the government body running this deployment (Ente). Single row.
type Entity struct {
	ID       uint    `gorm:"column:id;primaryKey;autoIncrement:false"                     json:"-"`
	Name     string  `gorm:"column:nome;type:varchar(150);not null"                        json:"name"`
	Address  string  `gorm:"column:endereco;type:varchar(255)"                             json:"address"`
	Phone    string  `gorm:"column:telefone;type:varchar(50)"                              json:"phone"`
	Email    string  `gorm:"column:email;type:varchar(100)"                                json:"email"`
	LogoPath *string `gorm:"column:logo_path;type:varchar(255)"                            json:"logo_path,omitempty"`
}

// TableName maps to ente
func (Entity) TableName() string { return "ente" }

// DefaultEntity values shown while no row exists
func DefaultEntity() *Entity {
	return &Entity{
		ID:      EntityID,
		Name:    "Prefeitura Municipal Modelo",
		Address: "Praça Central, S/N - Centro",
		Phone:   "(00) 0000-0000",
		Email:   "contato@modelo.gov.br",
	}
}
