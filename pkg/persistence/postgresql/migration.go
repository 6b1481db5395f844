package postgresql

func migrations() map[int]string {
	return map[int]string{
		1: `
			-- Create drafts table
			CREATE TABLE drafts (
				id UUID PRIMARY KEY,
				draft_type VARCHAR(50) NOT NULL CHECK (draft_type IN ('PROPERTY', 'PROJECT', 'DEVELOPER')),
				status VARCHAR(50) NOT NULL CHECK (status IN ('draft', 'published')),
				owner VARCHAR(255),
				draft_data JSONB NOT NULL DEFAULT '{}',
				created_at TIMESTAMP WITH TIME ZONE NOT NULL,
				updated_at TIMESTAMP WITH TIME ZONE NOT NULL,
				published_at TIMESTAMP WITH TIME ZONE,
				deleted_at TIMESTAMP WITH TIME ZONE
			);

			CREATE INDEX idx_drafts_type ON drafts(draft_type);
			CREATE INDEX idx_drafts_status ON drafts(status);
			CREATE INDEX idx_drafts_owner ON drafts(owner);
			CREATE INDEX idx_drafts_created_at ON drafts(created_at);
			CREATE INDEX idx_drafts_updated_at ON drafts(updated_at);
			CREATE INDEX idx_drafts_deleted_at ON drafts(deleted_at);
		`,
		2: `
			-- Title extract for listing screens, kept in sync from draft_data
			CREATE INDEX idx_drafts_title ON drafts ((draft_data->>'title'));
		`,
	}
}
