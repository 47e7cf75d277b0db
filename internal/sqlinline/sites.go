package sqlinline

const QSelectAllSites = `--sql 4f3cae89-dc5a-4a56-a5ca-ccb086de99d0
select id, name, coalesce(base_url, ''), enabled
from sites
where enabled = true
order by id asc;
`

const QSelectSiteByID = `--sql 75996937-4217-4e75-abd0-e44b361fc042
select id, name, coalesce(base_url, ''), enabled
from sites
where id = $1;
`
