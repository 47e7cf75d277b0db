package sqlinline

const QSelectAssetByID = `--sql 91b0448c-b546-43e4-b74c-d5ffb3940253
select id, site_id, filename, kind, coalesce(alt, ''), coalesce(mime_type, ''),
       coalesce(path, ''), coalesce(transform_source_path, ''), coalesce(url, ''),
       coalesce(volume_uid, ''), date_created
from assets
where id = $1 and site_id = $2;
`

const QSelectImagesBySite = `--sql c0eff944-0a4e-47ca-8f0d-7d278238e565
select id, site_id, filename, kind, coalesce(alt, ''), coalesce(mime_type, ''),
       coalesce(path, ''), coalesce(transform_source_path, ''), coalesce(url, ''),
       coalesce(volume_uid, ''), date_created
from assets
where site_id = $1 and kind = 'image'
order by id asc
offset $2 limit $3;
`

const QSelectImagesMissingAlt = `--sql 3331ad21-bd4d-49eb-9e82-640c1a357385
select id, site_id, filename, kind, coalesce(alt, ''), coalesce(mime_type, ''),
       coalesce(path, ''), coalesce(transform_source_path, ''), coalesce(url, ''),
       coalesce(volume_uid, ''), date_created
from assets
where site_id = $1 and kind = 'image'
  and (alt is null or btrim(alt) = '')
order by id asc
offset $2 limit $3;
`

const QCountImagesBySite = `--sql a6990236-0dcf-4def-89f9-9b793d5f61bf
select count(*)
from assets
where site_id = $1 and kind = 'image';
`

const QCountImagesMissingAlt = `--sql 1508347d-828b-49a3-9105-c81d67d7b80a
select count(*)
from assets
where site_id = $1 and kind = 'image'
  and (alt is null or btrim(alt) = '');
`

const QUpdateAssetAlt = `--sql f9c3bbff-59d8-432f-b0a6-13965ded9a84
update assets
set alt = $3, date_updated = now()
where id = $1 and site_id = $2;
`
