package database

const schema = `
CREATE TABLE IF NOT EXISTS linked_accounts (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    remote_account_id TEXT NOT NULL UNIQUE,
    profile_id TEXT NOT NULL DEFAULT '',
    profile_url TEXT NOT NULL DEFAULT '',
    display_name TEXT NOT NULL DEFAULT '',
    email TEXT NOT NULL DEFAULT '',
    status TEXT NOT NULL DEFAULT 'pending',
    checkpoint_type TEXT NOT NULL DEFAULT '',
    last_synced_at DATETIME,
    created_at DATETIME NOT NULL,
    updated_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS campaigns (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    name TEXT NOT NULL,
    status TEXT NOT NULL DEFAULT 'draft',
    job_titles TEXT NOT NULL DEFAULT '[]',
    locations TEXT NOT NULL DEFAULT '[]',
    keywords TEXT NOT NULL DEFAULT '[]',
    industries TEXT NOT NULL DEFAULT '[]',
    connection_message TEXT NOT NULL DEFAULT '',
    follow_up_message_1 TEXT NOT NULL DEFAULT '',
    follow_up_message_2 TEXT NOT NULL DEFAULT '',
    follow_up_message_3 TEXT NOT NULL DEFAULT '',
    follow_up_delay_days_1 INTEGER NOT NULL DEFAULT 3,
    follow_up_delay_days_2 INTEGER NOT NULL DEFAULT 7,
    follow_up_delay_days_3 INTEGER NOT NULL DEFAULT 14,
    daily_connection_limit INTEGER NOT NULL DEFAULT 25,
    daily_message_limit INTEGER NOT NULL DEFAULT 50,
    connections_sent INTEGER NOT NULL DEFAULT 0,
    connections_accepted INTEGER NOT NULL DEFAULT 0,
    messages_sent INTEGER NOT NULL DEFAULT 0,
    replies_received INTEGER NOT NULL DEFAULT 0,
    meetings_booked INTEGER NOT NULL DEFAULT 0,
    started_at DATETIME,
    paused_at DATETIME,
    completed_at DATETIME,
    created_at DATETIME NOT NULL,
    updated_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS prospects (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    profile_id TEXT NOT NULL DEFAULT '',
    profile_url TEXT NOT NULL DEFAULT '',
    first_name TEXT NOT NULL DEFAULT '',
    last_name TEXT NOT NULL DEFAULT '',
    full_name TEXT NOT NULL DEFAULT '',
    headline TEXT NOT NULL DEFAULT '',
    company TEXT NOT NULL DEFAULT '',
    job_title TEXT NOT NULL DEFAULT '',
    location TEXT NOT NULL DEFAULT '',
    connection_status TEXT NOT NULL DEFAULT 'none',
    source TEXT NOT NULL DEFAULT '',
    created_at DATETIME NOT NULL,
    updated_at DATETIME NOT NULL,
    UNIQUE(user_id, profile_id)
);

CREATE TABLE IF NOT EXISTS campaign_prospects (
    id TEXT PRIMARY KEY,
    campaign_id TEXT NOT NULL REFERENCES campaigns(id) ON DELETE CASCADE,
    prospect_id TEXT NOT NULL REFERENCES prospects(id) ON DELETE CASCADE,
    status TEXT NOT NULL DEFAULT 'queued',
    connection_sent_at DATETIME,
    connection_accepted_at DATETIME,
    last_message_sent_at DATETIME,
    last_reply_at DATETIME,
    follow_up_count INTEGER NOT NULL DEFAULT 0,
    next_follow_up_at DATETIME,
    created_at DATETIME NOT NULL,
    updated_at DATETIME NOT NULL,
    UNIQUE(campaign_id, prospect_id)
);

CREATE TABLE IF NOT EXISTS pending_actions (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    campaign_id TEXT NOT NULL DEFAULT '',
    prospect_id TEXT NOT NULL DEFAULT '',
    action_type TEXT NOT NULL,
    status TEXT NOT NULL DEFAULT 'pending',
    message_content TEXT NOT NULL DEFAULT '',
    campaign_name TEXT NOT NULL DEFAULT '',
    prospect_name TEXT NOT NULL DEFAULT '',
    follow_up_number INTEGER NOT NULL DEFAULT 0,
    expires_at DATETIME NOT NULL,
    approved_at DATETIME,
    executed_at DATETIME,
    created_at DATETIME NOT NULL,
    updated_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS activity_log (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    campaign_id TEXT NOT NULL DEFAULT '',
    prospect_id TEXT NOT NULL DEFAULT '',
    activity_type TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    created_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS user_settings (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL UNIQUE,
    autopilot_enabled BOOLEAN NOT NULL DEFAULT false,
    created_at DATETIME NOT NULL,
    updated_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_accounts_user ON linked_accounts(user_id, status);
CREATE INDEX IF NOT EXISTS idx_campaigns_user ON campaigns(user_id, status);
CREATE INDEX IF NOT EXISTS idx_prospects_profile ON prospects(user_id, profile_id);
CREATE INDEX IF NOT EXISTS idx_cp_campaign_status ON campaign_prospects(campaign_id, status);
CREATE INDEX IF NOT EXISTS idx_cp_next_follow_up ON campaign_prospects(next_follow_up_at);
CREATE INDEX IF NOT EXISTS idx_actions_user_status ON pending_actions(user_id, status);
CREATE INDEX IF NOT EXISTS idx_actions_expiry ON pending_actions(status, expires_at);
CREATE INDEX IF NOT EXISTS idx_activity_user ON activity_log(user_id, created_at);
`
