package entities

// Word is a single vocabulary entry. The ID is supplied by the caller and is
// never generated by the database.
type Word struct {
	ID      int64  `gorm:"column:id;primaryKey;autoIncrement:false" json:"id" yaml:"id"`
	Word    string `gorm:"column:word;type:text" json:"word" yaml:"word"`
	Meaning string `gorm:"column:meaning;type:text" json:"meaning" yaml:"meaning"`
}

// TableName pins the table name used by gorm.
func (Word) TableName() string {
	return "word_table"
}
