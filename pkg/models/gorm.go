package models

// ModelsToAutoMigrate returns the models in migration order.
func ModelsToAutoMigrate() []interface{} {
	return []interface{}{
		&ManualRecord{},
		&ManualEdition{},
		&SectionEdition{},
		&Attachment{},
		&PublicationLog{},
		&ManualPublishTask{},
	}
}
